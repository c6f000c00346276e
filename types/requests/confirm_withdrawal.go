package requests

type ConfirmWithdrawalRequest struct {
	WithdrawalID string `uri:"withdrawal_id" validate:"required"`
	// Confirmations as reported by the watcher, recorded into the audit trail.
	Confirmations uint32 `json:"confirmations"`
}
