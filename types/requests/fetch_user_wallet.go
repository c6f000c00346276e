package requests

import "github.com/moonrake/cashier-go/models"

type FetchUserWalletRequest struct {
	UserID   string          `uri:"user_id" validate:"required"`
	Currency models.Currency `uri:"currency" validate:"required,oneof=btc eth"`
}
