package esim

import (
	"errors"
	"fmt"
)

var (
	ErrPackageNotFound   = errors.New("esim package not found")
	ErrPurchaseNotFound  = errors.New("esim purchase not found")
	ErrPurchaseIncomplete = errors.New("payment taken but purchase record missing")
)

// PurchaseIncompleteError reports the partial-failure state: the wallet
// debit went through but the entitlement row could not be written. The
// journal reference is the handle a repair sweep needs.
type PurchaseIncompleteError struct {
	Reference string
	Cause     error
}

func (e *PurchaseIncompleteError) Error() string {
	return fmt.Sprintf("purchase incomplete for transaction %s: %v", e.Reference, e.Cause)
}

func (e *PurchaseIncompleteError) Unwrap() error {
	return ErrPurchaseIncomplete
}
