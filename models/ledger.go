package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/moonrake/cashier-go/errors"
)

// Deposit is an append-only ledger entry for inbound funds. Entries are
// never deleted or mutated except for the pending -> confirmed flip;
// balances are always derived by summing them.
type Deposit struct {
	ID        string
	AccountID string
	Currency  Currency
	Amount    float64
	TxID      *string
	Status    DepositStatus
	CreatedAt time.Time
}

type DepositStatus uint8

const (
	Pending_DepositStatus DepositStatus = iota
	Confirmed_DepositStatus
	Failed_DepositStatus
)

func (d DepositStatus) String() string {
	switch d {
	case Pending_DepositStatus:
		return "pending"
	case Confirmed_DepositStatus:
		return "confirmed"
	case Failed_DepositStatus:
		return "failed"
	default:
		panic("unreachable")
	}
}

func ParseDepositStatus(input string) (DepositStatus, error) {
	switch input {
	case "pending":
		return Pending_DepositStatus, nil
	case "confirmed":
		return Confirmed_DepositStatus, nil
	case "failed":
		return Failed_DepositStatus, nil
	default:
		return 0, errors.NewValidationError("invalid deposit status")
	}
}

func (d *DepositStatus) UnmarshalJSON(input []byte) error {
	status, err := ParseDepositStatus(strings.Trim(string(input), `"`))
	if err != nil {
		return err
	}
	*d = status
	return nil
}

func (d DepositStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d DepositStatus) Value() (driver.Value, error) {
	return d.String(), nil
}

func (d *DepositStatus) Scan(src any) error {
	var input string
	switch v := src.(type) {
	case string:
		input = v
	case []byte:
		input = string(v)
	default:
		return fmt.Errorf("cannot scan %T into DepositStatus", src)
	}
	status, err := ParseDepositStatus(input)
	if err != nil {
		return err
	}
	*d = status
	return nil
}

// LedgerSnapshot captures everything the withdrawal policy needs to rule on
// a request: the spendable balance and the amount already reserved against
// the daily cap. It is a plain value so policy evaluation stays pure.
type LedgerSnapshot struct {
	AccountID      string
	Currency       Currency
	Available      float64
	WithdrawnToday float64
	AsOf           time.Time
}

// DayStart returns the start of the calendar day containing asOf. Day
// boundaries are fixed to UTC so the cap window does not shift with the
// caller's locale.
func DayStart(asOf time.Time) time.Time {
	t := asOf.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
