package model

import "time"

type CheckoutStep int

const (
	CheckoutStepAddress  CheckoutStep = 1
	CheckoutStepDelivery CheckoutStep = 2
	CheckoutStepPayment  CheckoutStep = 3
)

func (s CheckoutStep) String() string {
	switch s {
	case CheckoutStepAddress:
		return "address"
	case CheckoutStepDelivery:
		return "delivery"
	case CheckoutStepPayment:
		return "payment"
	}
	return "unknown"
}

// CheckoutDraft holds the wizard selections until payment or expiry.
type CheckoutDraft struct {
	ID                 string       `json:"id"`
	IdentityID         string       `json:"identity_id"`
	Step               CheckoutStep `json:"step"`
	SelectedAddressID  string       `json:"selected_address_id,omitempty"`
	NewAddressFormOpen bool         `json:"new_address_form_open"`
	DeliveryType       DeliveryType `json:"delivery_type"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
}
