package reconciliation

import "errors"

var (
	ErrInvoiceNotFound = errors.New("invoice not found")
	ErrProductMissing  = errors.New("paid invoice references a missing package")
)
