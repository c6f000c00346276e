package requests

type CreateAccountRequest struct {
	Email       string  `json:"email" validate:"required"`
	Password    string  `json:"password" validate:"required"`
	FirstName   string  `json:"first_name" validate:"required"`
	LastName    string  `json:"last_name" validate:"required"`
	DisplayName string  `json:"display_name" validate:"required"`
	CallbackURL *string `json:"callback_url" validate:"omitempty,url"`
}
