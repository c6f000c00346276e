package responses

import (
	"time"

	"github.com/moonrake/cashier-go/models"
)

type WithdrawalResponseData struct {
	ID                 string                  `json:"id"`
	Currency           models.Currency         `json:"currency"`
	Amount             float64                 `json:"amount,string"`
	DestinationAddress string                  `json:"destination_address"`
	Status             models.WithdrawalStatus `json:"status"`
	TxID               *string                 `json:"txid"`
	AdminNotes         string                  `json:"admin_notes,omitempty"`
	CreatedAt          time.Time               `json:"created_at"`
	ProcessedAt        *time.Time              `json:"processed_at"`
	User               *models.Account         `json:"user"`
}
