package responses

import (
	"time"

	"github.com/moonrake/cashier-go/models"
)

type DepositResponseData struct {
	ID        string               `json:"id"`
	Currency  models.Currency      `json:"currency"`
	Amount    float64              `json:"amount,string"`
	TxID      *string              `json:"txid"`
	Status    models.DepositStatus `json:"status"`
	CreatedAt time.Time            `json:"created_at"`
	User      *models.Account      `json:"user"`
}
