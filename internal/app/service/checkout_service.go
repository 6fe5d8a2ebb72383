package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clozet/clozet-backend/internal/app/model"
	"github.com/clozet/clozet-backend/internal/app/repository"
	"github.com/clozet/clozet-backend/internal/app/session"
	"github.com/clozet/clozet-backend/internal/app/store"
	"github.com/clozet/clozet-backend/pkg/logger"
	"github.com/google/uuid"
)

// CheckoutView is everything the checkout page renders for one draft.
type CheckoutView struct {
	Draft           *model.CheckoutDraft `json:"draft"`
	Step            string               `json:"step"`
	Addresses       []model.Address      `json:"addresses"`
	NoAddresses     bool                 `json:"no_addresses"`
	DeliveryOptions []DeliveryOption     `json:"delivery_options"`
	Summary         Totals               `json:"summary"`
	CanAdvance      bool                 `json:"can_advance"`
}

type CheckoutService interface {
	Start(ctx context.Context, sess *session.Session) (*CheckoutView, error)
	Get(ctx context.Context, sess *session.Session, draftID string) (*CheckoutView, error)
	SelectAddress(ctx context.Context, sess *session.Session, draftID, addressID string) (*CheckoutView, error)
	OpenAddressForm(ctx context.Context, sess *session.Session, draftID string) (*CheckoutView, error)
	CloseAddressForm(ctx context.Context, sess *session.Session, draftID string) (*CheckoutView, error)
	AddAddress(ctx context.Context, sess *session.Session, draftID string, fields model.AddressFields) (*CheckoutView, error)
	ChooseDelivery(ctx context.Context, sess *session.Session, draftID string, deliveryType model.DeliveryType) (*CheckoutView, error)
	Next(ctx context.Context, sess *session.Session, draftID string) (*CheckoutView, error)
	Back(ctx context.Context, sess *session.Session, draftID string, step model.CheckoutStep) (*CheckoutView, error)
	Pay(ctx context.Context, sess *session.Session, draftID string) (*PaymentStart, error)
}

type checkoutService struct {
	states    repository.StateRepository
	addresses AddressService
	payments  PaymentService
	draftTTL  time.Duration
	now       func() time.Time
}

func NewCheckoutService(
	states repository.StateRepository,
	addresses AddressService,
	payments PaymentService,
	draftTTL time.Duration,
) CheckoutService {
	return &checkoutService{
		states:    states,
		addresses: addresses,
		payments:  payments,
		draftTTL:  draftTTL,
		now:       time.Now,
	}
}

// summary is computed from the fixed demo subtotal; the wizard does not read the cart.
func summary(draft *model.CheckoutDraft) Totals {
	option, ok := DeliveryOptionFor(draft.DeliveryType)
	if !ok {
		option, _ = DeliveryOptionFor(model.DeliveryExpress)
	}
	return ComputeTotals(DemoSubtotal, option.Fee)
}

func (s *checkoutService) view(draft *model.CheckoutDraft, addresses []model.Address) *CheckoutView {
	return &CheckoutView{
		Draft:           draft,
		Step:            draft.Step.String(),
		Addresses:       addresses,
		NoAddresses:     len(addresses) == 0,
		DeliveryOptions: DeliveryOptions(),
		Summary:         summary(draft),
		CanAdvance:      canAdvance(draft, addresses),
	}
}

func (s *checkoutService) load(ctx context.Context, sess *session.Session, draftID string) (*model.CheckoutDraft, error) {
	draft, err := s.states.FindCheckoutDraft(ctx, draftID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrCheckoutNotFound
		}
		return nil, fmt.Errorf("%w: load checkout: %v", ErrNetwork, err)
	}
	if draft.IdentityID != sess.IdentityID() {
		return nil, ErrCheckoutNotFound
	}
	return draft, nil
}

func (s *checkoutService) save(ctx context.Context, draft *model.CheckoutDraft) error {
	draft.UpdatedAt = s.now()
	if err := s.states.SaveCheckoutDraft(ctx, draft, s.draftTTL); err != nil {
		logger.Error("Failed to save checkout draft", err, map[string]interface{}{
			"checkout_id": draft.ID,
		})
		return fmt.Errorf("%w: save checkout: %v", ErrNetwork, err)
	}
	return nil
}

// mutate loads the draft, applies fn against the current address list and saves it.
func (s *checkoutService) mutate(
	ctx context.Context,
	sess *session.Session,
	draftID string,
	fn func(draft *model.CheckoutDraft, addresses []model.Address) error,
) (*CheckoutView, error) {
	draft, err := s.load(ctx, sess, draftID)
	if err != nil {
		return nil, err
	}
	addresses, err := s.addresses.List(ctx, sess)
	if err != nil {
		return nil, err
	}
	if err := fn(draft, addresses); err != nil {
		return nil, err
	}
	if err := s.save(ctx, draft); err != nil {
		return nil, err
	}
	return s.view(draft, addresses), nil
}

func (s *checkoutService) Start(ctx context.Context, sess *session.Session) (*CheckoutView, error) {
	addresses, err := s.addresses.List(ctx, sess)
	if err != nil {
		return nil, err
	}

	now := s.now()
	draft := &model.CheckoutDraft{
		ID:                uuid.NewString(),
		IdentityID:        sess.IdentityID(),
		Step:              model.CheckoutStepAddress,
		SelectedAddressID: preselect(addresses),
		DeliveryType:      model.DeliveryExpress,
		CreatedAt:         now,
	}
	if err := s.save(ctx, draft); err != nil {
		return nil, err
	}

	logger.Info("Checkout started", map[string]interface{}{
		"checkout_id":  draft.ID,
		"identity_id":  sess.IdentityID(),
		"no_addresses": len(addresses) == 0,
	})
	return s.view(draft, addresses), nil
}

func (s *checkoutService) Get(ctx context.Context, sess *session.Session, draftID string) (*CheckoutView, error) {
	draft, err := s.load(ctx, sess, draftID)
	if err != nil {
		return nil, err
	}
	addresses, err := s.addresses.List(ctx, sess)
	if err != nil {
		return nil, err
	}
	return s.view(draft, addresses), nil
}

func (s *checkoutService) SelectAddress(ctx context.Context, sess *session.Session, draftID, addressID string) (*CheckoutView, error) {
	return s.mutate(ctx, sess, draftID, func(draft *model.CheckoutDraft, addresses []model.Address) error {
		if err := requireStep(draft, model.CheckoutStepAddress); err != nil {
			return err
		}
		if !containsAddress(addresses, addressID) {
			return ErrAddressNotFound
		}
		draft.SelectedAddressID = addressID
		return nil
	})
}

func (s *checkoutService) OpenAddressForm(ctx context.Context, sess *session.Session, draftID string) (*CheckoutView, error) {
	return s.setForm(ctx, sess, draftID, true)
}

func (s *checkoutService) CloseAddressForm(ctx context.Context, sess *session.Session, draftID string) (*CheckoutView, error) {
	return s.setForm(ctx, sess, draftID, false)
}

func (s *checkoutService) setForm(ctx context.Context, sess *session.Session, draftID string, open bool) (*CheckoutView, error) {
	return s.mutate(ctx, sess, draftID, func(draft *model.CheckoutDraft, _ []model.Address) error {
		if err := requireStep(draft, model.CheckoutStepAddress); err != nil {
			return err
		}
		draft.NewAddressFormOpen = open
		return nil
	})
}

// AddAddress saves a new address through the address book, selects it and closes the form.
func (s *checkoutService) AddAddress(ctx context.Context, sess *session.Session, draftID string, fields model.AddressFields) (*CheckoutView, error) {
	draft, err := s.load(ctx, sess, draftID)
	if err != nil {
		return nil, err
	}
	if err := requireStep(draft, model.CheckoutStepAddress); err != nil {
		return nil, err
	}

	address, err := s.addresses.Create(ctx, sess, fields)
	if err != nil {
		return nil, err
	}

	draft.SelectedAddressID = address.ID
	draft.NewAddressFormOpen = false
	if err := s.save(ctx, draft); err != nil {
		return nil, err
	}

	addresses, err := s.addresses.List(ctx, sess)
	if err != nil {
		return nil, err
	}
	return s.view(draft, addresses), nil
}

func (s *checkoutService) ChooseDelivery(ctx context.Context, sess *session.Session, draftID string, deliveryType model.DeliveryType) (*CheckoutView, error) {
	return s.mutate(ctx, sess, draftID, func(draft *model.CheckoutDraft, _ []model.Address) error {
		return applyChooseDelivery(draft, deliveryType)
	})
}

func (s *checkoutService) Next(ctx context.Context, sess *session.Session, draftID string) (*CheckoutView, error) {
	return s.mutate(ctx, sess, draftID, func(draft *model.CheckoutDraft, addresses []model.Address) error {
		return applyNext(draft, addresses)
	})
}

func (s *checkoutService) Back(ctx context.Context, sess *session.Session, draftID string, step model.CheckoutStep) (*CheckoutView, error) {
	return s.mutate(ctx, sess, draftID, func(draft *model.CheckoutDraft, _ []model.Address) error {
		return applyCheckoutBack(draft, step)
	})
}

// Pay hands the step 3 summary to the payment bridge. On failure the draft
// stays at step 3 and the caller sees ErrPaymentFailed.
func (s *checkoutService) Pay(ctx context.Context, sess *session.Session, draftID string) (*PaymentStart, error) {
	draft, err := s.load(ctx, sess, draftID)
	if err != nil {
		return nil, err
	}
	if err := requireStep(draft, model.CheckoutStepPayment); err != nil {
		return nil, err
	}

	address, err := s.addresses.Get(ctx, sess, draft.SelectedAddressID)
	if err != nil {
		if errors.Is(err, ErrAddressNotFound) {
			return nil, ErrStepPrecondition
		}
		return nil, err
	}

	req := PaymentRequest{
		IdentityID:   sess.IdentityID(),
		Address:      *address,
		DeliveryType: draft.DeliveryType,
		Totals:       summary(draft),
	}
	if sess.Identity.Email != nil {
		req.Email = *sess.Identity.Email
	}

	start, err := s.payments.StartPayment(ctx, req)
	if err != nil {
		logger.Error("Payment hand-off failed", err, map[string]interface{}{
			"checkout_id": draft.ID,
		})
		return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}

	if err := s.states.DeleteCheckoutDraft(ctx, draft.ID); err != nil {
		logger.Warn("Failed to clear checkout draft", map[string]interface{}{
			"checkout_id": draft.ID,
			"error":       err.Error(),
		})
	}

	logger.Info("Checkout handed to payment", map[string]interface{}{
		"checkout_id": draft.ID,
		"order_id":    start.OrderID,
		"mode":        start.Mode,
		"total":       start.Total,
	})
	return start, nil
}
