package requests

type ConfirmDepositRequest struct {
	DepositID string `uri:"deposit_id" validate:"required"`
}
