package responses

import "github.com/moonrake/cashier-go/models"

type UserWalletResponseData struct {
	Currency       models.Currency `json:"currency"`
	Name           string          `json:"name"`
	Balance        float64         `json:"balance,string"`
	WithdrawnToday float64         `json:"withdrawn_today,string"`
	DepositAddress string          `json:"deposit_address"`
	User           *models.Account `json:"user"`
}

type DepositAddressResponseData struct {
	Currency models.Currency `json:"currency"`
	Address  string          `json:"address"`
	Index    uint32          `json:"index"`
}
