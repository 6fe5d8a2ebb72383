// Package stripecheckout is a thin Stripe Checkout client. Every Stripe
// response is mapped to the types in this package before it leaves.
package stripecheckout

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/clozet/clozet-backend/pkg/logger"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/checkout/session"
	"github.com/stripe/stripe-go/v81/customer"
	"github.com/stripe/stripe-go/v81/webhook"
)

const EventCheckoutSessionCompleted = "checkout.session.completed"

// Client represents a Stripe Checkout API client
type Client struct {
	config Config
}

// NewClient creates a new client and installs the secret key
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	stripe.Key = config.SecretKey
	return &Client{config: config}, nil
}

// FindOrCreateCustomer returns the first customer with email, creating one if none exists.
func (c *Client) FindOrCreateCustomer(ctx context.Context, email string, metadata map[string]string) (string, error) {
	if email == "" {
		return "", ErrInvalidRequest
	}

	params := &stripe.CustomerListParams{Email: stripe.String(email)}
	params.Context = ctx
	params.Limit = stripe.Int64(1)

	iter := customer.List(params)
	if iter.Next() {
		found := iter.Customer()
		logger.Debug("Found existing Stripe customer", map[string]interface{}{
			"customer_id": found.ID,
		})
		return found.ID, nil
	}
	if err := iter.Err(); err != nil {
		return "", fmt.Errorf("%w: list customers: %v", ErrProcessor, err)
	}

	create := &stripe.CustomerParams{Email: stripe.String(email)}
	create.Context = ctx
	for k, v := range metadata {
		create.AddMetadata(k, v)
	}
	created, err := customer.New(create)
	if err != nil {
		return "", fmt.Errorf("%w: create customer: %v", ErrProcessor, err)
	}

	logger.Info("Created Stripe customer", map[string]interface{}{
		"customer_id": created.ID,
	})
	return created.ID, nil
}

// CreateSession opens a payment-mode checkout session
func (c *Client) CreateSession(ctx context.Context, req CreateSessionRequest) (*Session, error) {
	if len(req.LineItems) == 0 || req.SuccessURL == "" || req.CancelURL == "" {
		return nil, ErrInvalidRequest
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}
	params.Context = ctx
	if req.CustomerID != "" {
		params.Customer = stripe.String(req.CustomerID)
	}
	for _, item := range req.LineItems {
		product := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(item.Name),
		}
		if item.Description != "" {
			product.Description = stripe.String(item.Description)
		}
		if item.Image != "" {
			product.Images = stripe.StringSlice([]string{item.Image})
		}
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(c.config.Currency),
				ProductData: product,
				UnitAmount:  stripe.Int64(item.UnitAmount),
			},
			Quantity: stripe.Int64(item.Quantity),
		})
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	cs, err := session.New(params)
	if err != nil {
		logger.Error("Failed to create checkout session", err)
		return nil, fmt.Errorf("%w: create session: %v", ErrProcessor, err)
	}

	logger.Info("Checkout session created", map[string]interface{}{
		"session_id": cs.ID,
	})
	return toSession(cs), nil
}

// GetSession retrieves a session with its line items expanded
func (c *Client) GetSession(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, ErrInvalidRequest
	}

	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	params.AddExpand("line_items")

	cs, err := session.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("%w: retrieve session: %v", ErrProcessor, err)
	}
	return toSession(cs), nil
}

// ParseWebhook verifies the Stripe-Signature header and decodes the event.
// Events rendered for a different account API version are still accepted;
// only the checkout session fields read by toSession are used.
func (c *Client) ParseWebhook(payload []byte, signature string) (*Event, error) {
	if c.config.WebhookSecret == "" {
		return nil, fmt.Errorf("%w: webhook secret not configured", ErrInvalidSignature)
	}

	event, err := webhook.ConstructEventWithOptions(payload, signature, c.config.WebhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	out := &Event{ID: event.ID, Type: string(event.Type)}
	if event.Data != nil && len(event.Data.Raw) > 0 && event.Data.Object["object"] == "checkout.session" {
		var cs stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
			return nil, fmt.Errorf("decode checkout session: %w", err)
		}
		out.Session = toSession(&cs)
	}
	return out, nil
}
