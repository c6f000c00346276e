package requests

import "github.com/moonrake/cashier-go/models"

type FetchDepositAddressRequest struct {
	UserID   string          `uri:"user_id" validate:"required"`
	Currency models.Currency `uri:"currency" validate:"required,oneof=btc eth"`
	Index    uint32          `query:"index"`
}
