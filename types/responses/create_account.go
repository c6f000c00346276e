package responses

import "github.com/moonrake/cashier-go/models"

type CreateAccountResponseData struct {
	*models.Account
	AccessToken string `json:"access_token"`
}
