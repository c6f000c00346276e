package requests

import "github.com/moonrake/cashier-go/models"

type FetchDepositsRequest struct {
	UserID   string           `uri:"user_id" validate:"required"`
	Currency *models.Currency `query:"currency" validate:"omitempty,oneof=btc eth"`
}
