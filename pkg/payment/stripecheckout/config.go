package stripecheckout

// Config represents the configuration for the Stripe Checkout client
type Config struct {
	// SecretKey is the Stripe secret API key
	SecretKey string

	// WebhookSecret verifies Stripe-Signature headers; webhooks are rejected when empty
	WebhookSecret string

	// Currency is the ISO currency of every price, e.g. "inr"
	Currency string
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return ErrInvalidConfig
	}
	if c.Currency == "" {
		return ErrInvalidConfig
	}
	return nil
}
