package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/clozet/clozet-backend/internal/app/model"
	"github.com/clozet/clozet-backend/internal/app/session"
	"github.com/shopspring/decimal"
)

type CartView struct {
	Lines  []model.CartLine `json:"lines"`
	Totals Totals           `json:"totals"`
}

type CartLineInput struct {
	Title     string          `json:"title" validate:"required"`
	Variant   string          `json:"variant"`
	Image     string          `json:"image"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity" validate:"gt=0"`
}

type CartService interface {
	Get(ctx context.Context, sess *session.Session) (*CartView, error)
	Add(ctx context.Context, sess *session.Session, input CartLineInput) (*CartView, error)
	SetQuantity(ctx context.Context, sess *session.Session, lineID string, quantity int) (*CartView, error)
	Remove(ctx context.Context, sess *session.Session, lineID string) (*CartView, error)
	Clear(ctx context.Context, sess *session.Session) (*CartView, error)
}

type cartService struct{}

func NewCartService() CartService {
	return &cartService{}
}

// cartTotals sums the lines. Delivery is the flat standard fee, nothing for an empty cart.
func cartTotals(lines []model.CartLine) Totals {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.LineTotal())
	}
	delivery := decimal.Zero
	if len(lines) > 0 {
		delivery = CartDeliveryFee
	}
	return ComputeTotals(subtotal, delivery)
}

func (s *cartService) Get(ctx context.Context, sess *session.Session) (*CartView, error) {
	lines, err := retryRead(ctx, "cart.list", func() ([]model.CartLine, error) {
		return sess.Stores.Carts.ListCartLines(ctx, sess.IdentityID())
	})
	if err != nil {
		return nil, fmt.Errorf("%w: list cart: %v", ErrNetwork, err)
	}
	return &CartView{Lines: lines, Totals: cartTotals(lines)}, nil
}

func (s *cartService) Add(ctx context.Context, sess *session.Session, input CartLineInput) (*CartView, error) {
	input.Title = strings.TrimSpace(input.Title)
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	if input.UnitPrice.IsNegative() {
		return nil, newValidationError("unit_price", "is invalid")
	}

	line := &model.CartLine{
		Title:     input.Title,
		Variant:   input.Variant,
		Image:     input.Image,
		UnitPrice: input.UnitPrice,
		Quantity:  input.Quantity,
	}
	if err := sess.Stores.Carts.AddCartLine(ctx, sess.IdentityID(), line); err != nil {
		return nil, fmt.Errorf("%w: add cart line: %v", ErrNetwork, err)
	}
	return s.Get(ctx, sess)
}

// SetQuantity updates a line; zero removes it.
func (s *cartService) SetQuantity(ctx context.Context, sess *session.Session, lineID string, quantity int) (*CartView, error) {
	if quantity < 0 {
		return nil, newValidationError("quantity", "is invalid")
	}
	if err := sess.Stores.Carts.SetCartLineQuantity(ctx, sess.IdentityID(), lineID, quantity); err != nil {
		return nil, storeErr(err, ErrCartLineNotFound, "set cart quantity")
	}
	return s.Get(ctx, sess)
}

func (s *cartService) Remove(ctx context.Context, sess *session.Session, lineID string) (*CartView, error) {
	if err := sess.Stores.Carts.RemoveCartLine(ctx, sess.IdentityID(), lineID); err != nil {
		return nil, storeErr(err, ErrCartLineNotFound, "remove cart line")
	}
	return s.Get(ctx, sess)
}

func (s *cartService) Clear(ctx context.Context, sess *session.Session) (*CartView, error) {
	if err := sess.Stores.Carts.ClearCart(ctx, sess.IdentityID()); err != nil {
		return nil, fmt.Errorf("%w: clear cart: %v", ErrNetwork, err)
	}
	return s.Get(ctx, sess)
}
