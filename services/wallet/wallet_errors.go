package wallet

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrWalletNotFound      = fmt.Errorf("wallet not found")
	ErrWalletNotPossible   = fmt.Errorf("could not create wallet")
	ErrOwnerNotFound       = fmt.Errorf("owner account not found")
	ErrInsufficientFunds   = fmt.Errorf("insufficient funds")
	ErrWalletBlocked       = fmt.Errorf("wallet is frozen or inactive")
	ErrInvalidAmount       = fmt.Errorf("amount is outside the allowed range")
	ErrBalanceCeiling      = fmt.Errorf("balance would exceed the allowed maximum")
	ErrUpdateConflict      = fmt.Errorf("could not update balance, too many concurrent updates")
	ErrUnsupportedCurrency = fmt.Errorf("unsupported wallet currency")
)

// InsufficientFundsError carries the balances the caller needs to render
// a useful message. It unwraps to ErrInsufficientFunds.
type InsufficientFundsError struct {
	Current  decimal.Decimal
	Required decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: balance %v, required %v", e.Current, e.Required)
}

func (e *InsufficientFundsError) Unwrap() error {
	return ErrInsufficientFunds
}

type WalletError struct {
	ErrorObj error
	OwnerID  string
	Other    []error
}

func (w *WalletError) Error() string {
	return w.ErrorObj.Error()
}

func (w *WalletError) ErrorOut() string {
	return fmt.Sprintf("%v: %v", w.ErrorObj.Error(), w.OwnerID)
}

func (w *WalletError) Unwrap() error {
	return w.ErrorObj
}

func NewWalletError(err error, ownerID string, e ...error) *WalletError {
	return &WalletError{
		ErrorObj: err,
		OwnerID:  ownerID,
		Other:    e,
	}
}
