package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/clozet/clozet-backend/config"
	"github.com/clozet/clozet-backend/internal/app/model"
	"github.com/clozet/clozet-backend/internal/app/repository"
	"github.com/clozet/clozet-backend/internal/app/store"
	"github.com/clozet/clozet-backend/pkg/logger"
	"github.com/clozet/clozet-backend/pkg/payment/stripecheckout"
	"github.com/clozet/clozet-backend/pkg/util"
	"github.com/shopspring/decimal"
)

const (
	guestEmail  = "guest@clozet.demo"
	guestUserID = "guest"

	// ReasonIncompleteMetadata marks a paid session that could not be recorded as an order.
	ReasonIncompleteMetadata = "incomplete_metadata"
	// ReasonUnknownStore marks a paid session whose store_id names no store.
	ReasonUnknownStore = "unknown_store"
)

// CheckoutGateway is the hosted payment page the reconciliation path talks to.
type CheckoutGateway interface {
	FindOrCreateCustomer(ctx context.Context, email string, metadata map[string]string) (string, error)
	CreateSession(ctx context.Context, req stripecheckout.CreateSessionRequest) (*stripecheckout.Session, error)
	GetSession(ctx context.Context, id string) (*stripecheckout.Session, error)
	ParseWebhook(payload []byte, signature string) (*stripecheckout.Event, error)
}

// PaymentRequest is what the checkout wizard hands over at step 3.
type PaymentRequest struct {
	IdentityID   string
	Email        string
	Address      model.Address
	DeliveryType model.DeliveryType
	Totals       Totals
}

// PaymentStart tells the client where to go next.
type PaymentStart struct {
	Mode        string      `json:"mode"`
	OrderID     string      `json:"order_id"`
	SessionID   string      `json:"session_id,omitempty"`
	RedirectURL string      `json:"redirect_url"`
	Total       json.Number `json:"total"`
}

type DemoPaymentScreen struct {
	OrderID string `json:"order_id"`
	Total   string `json:"total"`
}

type DemoPaymentResult struct {
	OrderID     string `json:"order_id"`
	Paid        bool   `json:"paid"`
	RedirectURL string `json:"redirect_url"`
}

type OrderItemInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int64           `json:"quantity"`
}

type CreateSessionInput struct {
	OrderTotal      decimal.Decimal       `json:"orderTotal"`
	DeliveryCharge  decimal.Decimal       `json:"deliveryCharge"`
	OrderItems      []OrderItemInput      `json:"orderItems"`
	DeliveryAddress model.AddressSnapshot `json:"deliveryAddress"`
	DeliveryType    model.DeliveryType    `json:"deliveryType"`
	Email           string                `json:"email"`
	Tax             *decimal.Decimal      `json:"tax,omitempty"`
}

type CreateSessionResult struct {
	URL       string `json:"url"`
	SessionID string `json:"sessionId"`
}

// CompletionResult reports the reconciliation outcome. OrderRecorded is
// false when the session was paid but carried too little metadata.
type CompletionResult struct {
	Paid          bool   `json:"paid"`
	SessionID     string `json:"sessionId"`
	OrderID       string `json:"orderId,omitempty"`
	OrderNumber   string `json:"orderNumber,omitempty"`
	Reason        string `json:"reason,omitempty"`
	OrderRecorded bool   `json:"orderRecorded"`
}

type PaymentService interface {
	StartPayment(ctx context.Context, req PaymentRequest) (*PaymentStart, error)
	DemoScreen(orderID, total string) *DemoPaymentScreen
	CompleteDemoPayment(ctx context.Context, orderID string) (*DemoPaymentResult, error)
	CreateCheckoutSession(ctx context.Context, identityID string, input CreateSessionInput) (*CreateSessionResult, error)
	CompletePayment(ctx context.Context, sessionID string) (*CompletionResult, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

type paymentService struct {
	orders   repository.OrderRepository
	stores   repository.StoreRepository
	gateway  CheckoutGateway
	checkout config.CheckoutConfig
	now      func() time.Time
}

// NewPaymentService builds the bridge. gateway may be nil when no Stripe key
// is configured; only the demo path works then.
func NewPaymentService(
	orders repository.OrderRepository,
	stores repository.StoreRepository,
	gateway CheckoutGateway,
	checkoutCfg config.CheckoutConfig,
) PaymentService {
	return &paymentService{
		orders:   orders,
		stores:   stores,
		gateway:  gateway,
		checkout: checkoutCfg,
		now:      time.Now,
	}
}

func (s *paymentService) StartPayment(ctx context.Context, req PaymentRequest) (*PaymentStart, error) {
	if s.checkout.PaymentMode == config.PaymentModeStripe {
		return s.startStripe(ctx, req)
	}

	orderID := util.GenerateOrderNumber(s.now())
	total := req.Totals.Total.StringFixed(2)

	logger.Info("Demo payment started", map[string]interface{}{
		"order_id":    orderID,
		"identity_id": req.IdentityID,
		"total":       total,
	})

	return &PaymentStart{
		Mode:        config.PaymentModeDemo,
		OrderID:     orderID,
		RedirectURL: demoPaymentURL(orderID, total),
		Total:       money(req.Totals.Total),
	}, nil
}

func demoPaymentURL(orderID, total string) string {
	q := url.Values{}
	q.Set("orderId", orderID)
	q.Set("total", total)
	return "/pay/stripe-demo?" + q.Encode()
}

func confirmationPath(orderID string) string {
	return "/order/" + url.PathEscape(orderID) + "/confirmation"
}

// startStripe turns the wizard summary into a hosted checkout session.
func (s *paymentService) startStripe(ctx context.Context, req PaymentRequest) (*PaymentStart, error) {
	tax := req.Totals.Tax
	result, err := s.CreateCheckoutSession(ctx, req.IdentityID, CreateSessionInput{
		OrderTotal:     req.Totals.Total,
		DeliveryCharge: req.Totals.Delivery,
		OrderItems: []OrderItemInput{
			{Name: "Clozet order", Description: "Items and taxes", Price: req.Totals.Subtotal.Add(tax), Quantity: 1},
		},
		DeliveryAddress: req.Address.Snapshot(),
		DeliveryType:    req.DeliveryType,
		Email:           req.Email,
		Tax:             &tax,
	})
	if err != nil {
		return nil, err
	}
	return &PaymentStart{
		Mode:        config.PaymentModeStripe,
		OrderID:     result.SessionID,
		SessionID:   result.SessionID,
		RedirectURL: result.URL,
		Total:       money(req.Totals.Total),
	}, nil
}

// DemoScreen returns what the simulation page shows. A missing order id is synthesized.
func (s *paymentService) DemoScreen(orderID, total string) *DemoPaymentScreen {
	if strings.TrimSpace(orderID) == "" {
		orderID = util.GenerateOrderNumber(s.now())
	}
	if strings.TrimSpace(total) == "" {
		total = "0"
	}
	return &DemoPaymentScreen{OrderID: orderID, Total: total}
}

// CompleteDemoPayment waits out the artificial processing delay and always succeeds.
// No order row is written on this path.
func (s *paymentService) CompleteDemoPayment(ctx context.Context, orderID string) (*DemoPaymentResult, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, newValidationError("orderId", "is required")
	}

	timer := time.NewTimer(s.checkout.DemoPaymentDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	logger.Info("Demo payment completed", map[string]interface{}{
		"order_id": orderID,
	})
	return &DemoPaymentResult{
		OrderID:     orderID,
		Paid:        true,
		RedirectURL: confirmationPath(orderID),
	}, nil
}

func toPaise(d decimal.Decimal) int64 {
	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func fromPaise(p int64) decimal.Decimal {
	return decimal.New(p, -2)
}

func (s *paymentService) CreateCheckoutSession(ctx context.Context, identityID string, input CreateSessionInput) (*CreateSessionResult, error) {
	if s.gateway == nil {
		return nil, ErrPaymentUnavailable
	}
	if len(input.OrderItems) == 0 {
		return nil, newValidationError("orderItems", "is required")
	}

	shop, err := s.checkoutStore(ctx)
	if err != nil {
		return nil, err
	}

	email := strings.TrimSpace(input.Email)
	if email == "" {
		email = guestEmail
	}
	userID := identityID
	if userID == "" {
		userID = guestUserID
	}
	deliveryType := input.DeliveryType
	if !deliveryType.Valid() {
		deliveryType = model.DeliveryExpress
	}

	items := make([]stripecheckout.LineItem, 0, len(input.OrderItems)+1)
	for i, item := range input.OrderItems {
		if strings.TrimSpace(item.Name) == "" || item.Quantity <= 0 || item.Price.IsNegative() {
			return nil, newValidationError(fmt.Sprintf("orderItems[%d]", i), "is invalid")
		}
		items = append(items, stripecheckout.LineItem{
			Name:        item.Name,
			Description: item.Description,
			Image:       item.Image,
			UnitAmount:  toPaise(item.Price),
			Quantity:    item.Quantity,
		})
	}
	if input.DeliveryCharge.IsPositive() {
		items = append(items, stripecheckout.LineItem{
			Name:        "Delivery Charge",
			Description: "Express delivery service",
			UnitAmount:  toPaise(input.DeliveryCharge),
			Quantity:    1,
		})
	}

	address, err := json.Marshal(input.DeliveryAddress)
	if err != nil {
		return nil, fmt.Errorf("encode delivery address: %w", err)
	}
	metadata := map[string]string{
		"user_id":          userID,
		"delivery_address": string(address),
		"delivery_type":    string(deliveryType),
		"store_id":         shop.ID,
		"delivery_charge":  input.DeliveryCharge.StringFixed(2),
	}
	if input.Tax != nil {
		metadata["tax"] = input.Tax.StringFixed(2)
		metadata["subtotal"] = input.OrderTotal.Sub(*input.Tax).Sub(input.DeliveryCharge).StringFixed(2)
	}

	customerID, err := s.gateway.FindOrCreateCustomer(ctx, email, map[string]string{"user_id": userID})
	if err != nil {
		logger.Error("Failed to resolve payment customer", err)
		return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}

	origin := strings.TrimSuffix(s.checkout.AppOrigin, "/")
	session, err := s.gateway.CreateSession(ctx, stripecheckout.CreateSessionRequest{
		CustomerID: customerID,
		LineItems:  items,
		SuccessURL: origin + "/order/{CHECKOUT_SESSION_ID}/confirmation?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  origin + model.RouteCheckout,
		Metadata:   metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}

	logger.Info("Payment session created", map[string]interface{}{
		"session_id":  session.ID,
		"identity_id": userID,
		"order_total": input.OrderTotal.StringFixed(2),
	})
	return &CreateSessionResult{URL: session.URL, SessionID: session.ID}, nil
}

// checkoutStore resolves the configured fulfilling store, which must exist and be active.
func (s *paymentService) checkoutStore(ctx context.Context) (*model.Store, error) {
	shop, err := retryRead(ctx, "payment.store", func() (*model.Store, error) {
		return s.stores.FindByID(ctx, s.checkout.StoreID)
	})
	if errors.Is(err, store.ErrNotFound) || (err == nil && !shop.Active()) {
		logger.Error("Checkout store is missing or inactive", ErrStoreNotFound, map[string]interface{}{
			"store_id": s.checkout.StoreID,
		})
		return nil, ErrPaymentUnavailable
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load store: %v", ErrNetwork, err)
	}
	return shop, nil
}

func (s *paymentService) CompletePayment(ctx context.Context, sessionID string) (*CompletionResult, error) {
	if s.gateway == nil {
		return nil, ErrPaymentUnavailable
	}
	if strings.TrimSpace(sessionID) == "" {
		return nil, newValidationError("sessionId", "is required")
	}

	session, err := s.gateway.GetSession(ctx, sessionID)
	if err != nil {
		logger.Error("Failed to retrieve payment session", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	return s.reconcile(ctx, session)
}

// reconcile records exactly one order for a paid session with full metadata.
func (s *paymentService) reconcile(ctx context.Context, session *stripecheckout.Session) (*CompletionResult, error) {
	if !session.Paid() {
		logger.Info("Payment session not paid", map[string]interface{}{
			"session_id":     session.ID,
			"payment_status": session.PaymentStatus,
		})
		return &CompletionResult{Paid: false, SessionID: session.ID, Reason: session.PaymentStatus}, nil
	}

	order, ok := orderFromSession(session, s.now())
	if !ok {
		logger.Warn("Paid session has incomplete metadata, order not recorded", map[string]interface{}{
			"session_id":   session.ID,
			"has_user":     session.Metadata["user_id"] != "",
			"has_store":    session.Metadata["store_id"] != "",
			"has_address":  session.Metadata["delivery_address"] != "",
			"metadata_len": len(session.Metadata),
		})
		return &CompletionResult{
			Paid:        true,
			SessionID:   session.ID,
			OrderID:     session.ID,
			OrderNumber: session.ID,
			Reason:      ReasonIncompleteMetadata,
		}, nil
	}

	if _, err := s.stores.FindByID(ctx, order.StoreID); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: load store: %v", ErrNetwork, err)
		}
		logger.Warn("Paid session names an unknown store, order not recorded", map[string]interface{}{
			"session_id": session.ID,
			"store_id":   order.StoreID,
		})
		return &CompletionResult{
			Paid:        true,
			SessionID:   session.ID,
			OrderID:     session.ID,
			OrderNumber: session.ID,
			Reason:      ReasonUnknownStore,
		}, nil
	}

	created, err := s.orders.CreateIfAbsent(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("%w: record order: %v", ErrNetwork, err)
	}
	if !created {
		existing, err := s.orders.FindByID(ctx, session.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: load order: %v", ErrNetwork, err)
		}
		order = existing
	}

	logger.Info("Payment reconciled", map[string]interface{}{
		"session_id":   session.ID,
		"order_number": order.OrderNumber,
		"created":      created,
	})
	return &CompletionResult{
		Paid:          true,
		SessionID:     session.ID,
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		OrderRecorded: true,
	}, nil
}

// orderFromSession builds the order row; ok is false when user, store or address is missing.
func orderFromSession(session *stripecheckout.Session, now time.Time) (*model.Order, bool) {
	meta := session.Metadata
	userID, storeID, rawAddress := meta["user_id"], meta["store_id"], meta["delivery_address"]
	if userID == "" || storeID == "" || rawAddress == "" {
		return nil, false
	}
	var address model.AddressSnapshot
	if err := json.Unmarshal([]byte(rawAddress), &address); err != nil {
		return nil, false
	}

	subtotal := fromPaise(session.AmountSubtotal)
	total := fromPaise(session.AmountTotal)
	delivery := decimal.Max(decimal.Zero, total.Sub(subtotal))
	tax := decimal.Zero
	if v, err := decimal.NewFromString(meta["tax"]); err == nil {
		tax = v
		if st, err := decimal.NewFromString(meta["subtotal"]); err == nil {
			subtotal = st
		}
		if dc, err := decimal.NewFromString(meta["delivery_charge"]); err == nil {
			delivery = dc
		}
	}

	deliveryType := model.DeliveryType(meta["delivery_type"])
	if !deliveryType.Valid() {
		deliveryType = model.DeliveryStandard
	}

	items := make([]model.OrderLine, 0, len(session.LineItems))
	for _, li := range session.LineItems {
		items = append(items, model.OrderLine{
			Name:      li.Description,
			Quantity:  li.Quantity,
			UnitPrice: fromPaise(li.UnitAmount),
			Total:     fromPaise(li.AmountTotal),
		})
	}

	return &model.Order{
		ID:              session.ID,
		OrderNumber:     util.GenerateOrderNumber(now),
		UserID:          userID,
		StoreID:         storeID,
		Items:           items,
		Subtotal:        subtotal,
		Tax:             tax,
		DeliveryCharge:  delivery,
		Total:           total,
		DeliveryAddress: address,
		DeliveryType:    deliveryType,
		PaymentStatus:   model.PaymentStatusPaid,
		OrderStatus:     model.OrderStatusConfirmed,
		StripeSessionID: session.ID,
	}, true
}

func (s *paymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if s.gateway == nil {
		return ErrPaymentUnavailable
	}
	event, err := s.gateway.ParseWebhook(payload, signature)
	if err != nil {
		logger.Warn("Rejected payment webhook", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}

	if event.Type != stripecheckout.EventCheckoutSessionCompleted || event.Session == nil {
		logger.Debug("Ignoring payment webhook", map[string]interface{}{
			"event_id":   event.ID,
			"event_type": event.Type,
		})
		return nil
	}

	// the event payload has no line items; fetch the expanded session
	if _, err := s.CompletePayment(ctx, event.Session.ID); err != nil {
		return err
	}
	return nil
}
