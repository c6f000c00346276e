package requests

type DispatchWithdrawalRequest struct {
	WithdrawalID string `uri:"withdrawal_id" validate:"required"`
}
