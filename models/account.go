package models

import "time"

type Account struct {
	ID          string     `json:"id"`
	SN          string     `json:"sn,omitempty"`
	DisplayName string     `json:"display_name"`
	Email       string     `json:"email,omitempty"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	CallbackURL *string    `json:"callback_url,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`

	// internal fields
	IsAdmin    bool    `json:"-"`
	WebhookKey *string `json:"-"`
	Password   *string `json:"-"`
}

type Credentials struct {
	ID       string
	Password string
}
