package requests

import "github.com/moonrake/cashier-go/models"

type RecordDepositRequest struct {
	UserID    string          `uri:"user_id" validate:"required"`
	Currency  models.Currency `json:"currency" validate:"required,oneof=btc eth"`
	Amount    models.Double   `json:"amount" validate:"required,gt=0"`
	TxID      *string         `json:"txid"`
	Confirmed bool            `json:"confirmed"`
}
