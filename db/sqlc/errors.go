package db

import (
	"errors"

	"github.com/lib/pq"
)

const (
	DuplicateEntry       pq.ErrorCode = "23505"
	EntryTooLong         pq.ErrorCode = "22001"
	SerializationFailure pq.ErrorCode = "40001"
	DeadlockDetected     pq.ErrorCode = "40P01"
	LockNotAvailable     pq.ErrorCode = "55P03"
)

// IsUniqueViolation reports whether err is a Postgres unique-constraint violation.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == DuplicateEntry
	}
	return false
}

// IsWriteConflict reports whether err is a transient row-contention failure
// that a caller may retry (serialization failure, deadlock, lock timeout).
func IsWriteConflict(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case SerializationFailure, DeadlockDetected, LockNotAvailable:
			return true
		}
	}
	return false
}
