package currency

import "fmt"

var (
	ErrUnsupportedCurrency = fmt.Errorf("unsupported currency")
	ErrNoExchangeRate      = fmt.Errorf("no exchange rate found")
)
