package transaction

import "fmt"

var (
	ErrTransactionNotFound  = fmt.Errorf("transaction not found")
	ErrUnsupportedType      = fmt.Errorf("unsupported transaction type")
	ErrReferenceExhausted   = fmt.Errorf("could not generate a unique transaction reference")
	ErrInvalidProcessAmount = fmt.Errorf("transaction amount must be positive")
)
