package requests

import "github.com/moonrake/cashier-go/models"

type CreateWithdrawalRequest struct {
	UserID             string          `uri:"user_id" validate:"required"`
	Currency           models.Currency `json:"currency" validate:"required,oneof=btc eth"`
	Amount             models.Double   `json:"amount" validate:"required,gt=0"`
	DestinationAddress string          `json:"destination_address" validate:"required"`
}
