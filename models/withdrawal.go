package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/moonrake/cashier-go/errors"
)

type Withdrawal struct {
	ID                 string
	AccountID          string
	Currency           Currency
	Amount             float64
	DestinationAddress string
	Status             WithdrawalStatus
	TxID               *string
	AdminNotes         string
	CreatedAt          time.Time
	ProcessedAt        *time.Time
}

// Terminal reports whether the record can never transition again.
func (w *Withdrawal) Terminal() bool {
	return w.Status.Terminal()
}

type WithdrawalStatus uint8

const (
	Pending_WithdrawalStatus WithdrawalStatus = iota
	Approved_WithdrawalStatus
	Processing_WithdrawalStatus
	Completed_WithdrawalStatus
	Failed_WithdrawalStatus
	Rejected_WithdrawalStatus
)

// transitions is the full lifecycle table. Anything not listed is a
// conflict, including every edge out of a terminal state.
var transitions = map[WithdrawalStatus][]WithdrawalStatus{
	Pending_WithdrawalStatus:    {Approved_WithdrawalStatus, Rejected_WithdrawalStatus},
	Approved_WithdrawalStatus:   {Processing_WithdrawalStatus, Failed_WithdrawalStatus},
	Processing_WithdrawalStatus: {Completed_WithdrawalStatus, Failed_WithdrawalStatus},
}

func (w WithdrawalStatus) CanTransition(to WithdrawalStatus) bool {
	for _, next := range transitions[w] {
		if next == to {
			return true
		}
	}
	return false
}

func (w WithdrawalStatus) Terminal() bool {
	return len(transitions[w]) == 0
}

func (w WithdrawalStatus) String() string {
	switch w {
	case Pending_WithdrawalStatus:
		return "pending"
	case Approved_WithdrawalStatus:
		return "approved"
	case Processing_WithdrawalStatus:
		return "processing"
	case Completed_WithdrawalStatus:
		return "completed"
	case Failed_WithdrawalStatus:
		return "failed"
	case Rejected_WithdrawalStatus:
		return "rejected"
	default:
		panic("unreachable")
	}
}

func ParseWithdrawalStatus(input string) (WithdrawalStatus, error) {
	switch input {
	case "pending":
		return Pending_WithdrawalStatus, nil
	case "approved":
		return Approved_WithdrawalStatus, nil
	case "processing":
		return Processing_WithdrawalStatus, nil
	case "completed":
		return Completed_WithdrawalStatus, nil
	case "failed":
		return Failed_WithdrawalStatus, nil
	case "rejected":
		return Rejected_WithdrawalStatus, nil
	default:
		return 0, errors.NewValidationError("invalid withdrawal status")
	}
}

func (w *WithdrawalStatus) UnmarshalJSON(input []byte) error {
	if w == nil {
		w = new(WithdrawalStatus)
	}
	status, err := ParseWithdrawalStatus(strings.Trim(string(input), `"`))
	if err != nil {
		return err
	}
	*w = status
	return nil
}

func (w WithdrawalStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.String())
}

// UnmarshalText lets the status appear as a query parameter.
func (w *WithdrawalStatus) UnmarshalText(input []byte) error {
	status, err := ParseWithdrawalStatus(string(input))
	if err != nil {
		return err
	}
	*w = status
	return nil
}

func (w WithdrawalStatus) Value() (driver.Value, error) {
	return w.String(), nil
}

func (w *WithdrawalStatus) Scan(src any) error {
	var input string
	switch v := src.(type) {
	case string:
		input = v
	case []byte:
		input = string(v)
	default:
		return fmt.Errorf("cannot scan %T into WithdrawalStatus", src)
	}
	status, err := ParseWithdrawalStatus(input)
	if err != nil {
		return err
	}
	*w = status
	return nil
}

// AcceptedWithdrawalStatuses are the states that reserve funds against the
// daily cap: everything except rejected and failed.
var AcceptedWithdrawalStatuses = []WithdrawalStatus{
	Pending_WithdrawalStatus,
	Approved_WithdrawalStatus,
	Processing_WithdrawalStatus,
	Completed_WithdrawalStatus,
}
