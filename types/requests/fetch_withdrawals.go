package requests

import "github.com/moonrake/cashier-go/models"

type FetchWithdrawalsRequest struct {
	UserID   string                   `uri:"user_id" validate:"required"`
	Currency *models.Currency         `query:"currency" validate:"omitempty,oneof=btc eth"`
	State    *models.WithdrawalStatus `query:"state"`
}
