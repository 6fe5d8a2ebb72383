package model

import "time"

type LoginStep string

const (
	LoginStepMethod        LoginStep = "method"
	LoginStepPhone         LoginStep = "phone"
	LoginStepEmail         LoginStep = "email"
	LoginStepOTP           LoginStep = "otp"
	LoginStepAuthenticated LoginStep = "authenticated"
)

// LoginFlow is the server-held state of one OTP login attempt.
type LoginFlow struct {
	ID                string    `json:"id"`
	Step              LoginStep `json:"step"`
	Channel           Channel   `json:"channel,omitempty"`
	Identifier        string    `json:"identifier,omitempty"`
	Demo              bool      `json:"demo"`
	ResendAvailableAt time.Time `json:"resend_available_at,omitempty"`
	IdentityID        string    `json:"identity_id,omitempty"`
	Redirect          string    `json:"redirect,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
