package stripecheckout

import "errors"

var (
	// ErrInvalidConfig is returned when the client is built without a key or currency
	ErrInvalidConfig = errors.New("invalid stripe checkout config")

	// ErrInvalidRequest is returned when the request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrProcessor wraps every error reported by the Stripe API
	ErrProcessor = errors.New("stripe request failed")

	// ErrInvalidSignature is returned when a webhook payload fails verification
	ErrInvalidSignature = errors.New("invalid webhook signature")
)
