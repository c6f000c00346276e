package requests

type RejectWithdrawalRequest struct {
	WithdrawalID string `uri:"withdrawal_id" validate:"required"`
	Reason       string `json:"reason" validate:"required"`
}
