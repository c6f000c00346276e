package models

import "encoding/json"

type Webhook struct {
	Event WebhookEvent `json:"event"`
	Data  any          `json:"data"`
}

type WebhookEvent uint8

const (
	WithdrawalPending_WebhookEvent WebhookEvent = iota + 1
	WithdrawalApproved_WebhookEvent
	WithdrawalCompleted_WebhookEvent
	WithdrawalFailed_WebhookEvent
	WithdrawalRejected_WebhookEvent

	DepositConfirmed_WebhookEvent
)

func (w WebhookEvent) String() string {
	switch w {
	case WithdrawalPending_WebhookEvent:
		return "withdrawal.pending"
	case WithdrawalApproved_WebhookEvent:
		return "withdrawal.approved"
	case WithdrawalCompleted_WebhookEvent:
		return "withdrawal.completed"
	case WithdrawalFailed_WebhookEvent:
		return "withdrawal.failed"
	case WithdrawalRejected_WebhookEvent:
		return "withdrawal.rejected"
	case DepositConfirmed_WebhookEvent:
		return "deposit.confirmed"
	default:
		panic("unreachable")
	}
}

func (w WebhookEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.String())
}
