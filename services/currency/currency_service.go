package currency

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var SupportedCurrencies = []string{"USD", "MNT"}

// UsdToMnt is the fixed conversion rate used for display pricing.
// Rate policy beyond this constant is out of scope.
var UsdToMnt = decimal.NewFromInt(3450)

func IsCurrencyValid(request string) bool {
	for _, c := range SupportedCurrencies {
		if request == c {
			return true
		}
	}

	return false
}

func IsCurrencyInvalid(request string) bool {
	return !IsCurrencyValid(request)
}

// Round normalizes a monetary amount to the currency's minor unit.
// decimal.Round rounds half away from zero, which is the house rule:
// it is applied once per mutation, never accumulated across reads.
func Round(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}

// Convert applies the fixed USD<->MNT rate. Same-currency conversion is a no-op.
func Convert(amount decimal.Decimal, fromCurrency string, toCurrency string) (decimal.Decimal, error) {
	if fromCurrency == toCurrency {
		return amount, nil
	}
	switch {
	case fromCurrency == "USD" && toCurrency == "MNT":
		return Round(amount.Mul(UsdToMnt)), nil
	case fromCurrency == "MNT" && toCurrency == "USD":
		return Round(amount.Div(UsdToMnt)), nil
	}
	return decimal.Zero, fmt.Errorf("no conversion from %v to %v", fromCurrency, toCurrency)
}
