package models

import (
	"database/sql/driver"
	"fmt"

	"github.com/moonrake/cashier-go/errors"
)

type Currency string

const (
	BTC Currency = "btc"
	ETH Currency = "eth"
)

// Currencies lists every chain the cashier can pay out on. Adding a
// currency here requires a matching chain.Broadcaster implementation.
var Currencies = []Currency{BTC, ETH}

func ParseCurrency(input string) (Currency, error) {
	switch Currency(input) {
	case BTC:
		return BTC, nil
	case ETH:
		return ETH, nil
	default:
		return "", errors.NewValidationError(fmt.Sprintf("unsupported currency: %s", input))
	}
}

func (c Currency) Supported() bool {
	switch c {
	case BTC, ETH:
		return true
	default:
		return false
	}
}

func (c Currency) Value() (driver.Value, error) {
	return string(c), nil
}

func (c *Currency) Scan(src any) error {
	switch v := src.(type) {
	case string:
		*c = Currency(v)
	case []byte:
		*c = Currency(v)
	default:
		return fmt.Errorf("cannot scan %T into Currency", src)
	}
	return nil
}
