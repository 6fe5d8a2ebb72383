package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/clozet/clozet-backend/internal/app/model"
	"github.com/clozet/clozet-backend/internal/app/repository"
	"github.com/clozet/clozet-backend/internal/app/session"
	"github.com/clozet/clozet-backend/internal/app/store"
	"github.com/clozet/clozet-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

// EstimatedDelivery is shown on every confirmation.
const EstimatedDelivery = "45-60 minutes"

type ConfirmationStatus string

const (
	ConfirmationVerified   ConfirmationStatus = "verified"
	ConfirmationFailed     ConfirmationStatus = "failed"
	ConfirmationUnverified ConfirmationStatus = "unverified"
)

type Confirmation struct {
	OrderID           string             `json:"order_id"`
	OrderNumber       string             `json:"order_number"`
	Status            ConfirmationStatus `json:"status"`
	Paid              bool               `json:"paid"`
	Reason            string             `json:"reason,omitempty"`
	EstimatedDelivery string             `json:"estimated_delivery"`
	Order             *model.Order       `json:"order,omitempty"`
}

type OrderService interface {
	// Confirmation reconciles sessionID once when present; without it the path id is shown unverified.
	Confirmation(ctx context.Context, orderID, sessionID string) (*Confirmation, error)
	List(ctx context.Context, sess *session.Session) ([]model.Order, error)
	Get(ctx context.Context, sess *session.Session, orderID string) (*model.Order, error)
	Export(ctx context.Context, sess *session.Session) ([]byte, error)
}

type orderService struct {
	orders   repository.OrderRepository
	payments PaymentService
}

func NewOrderService(orders repository.OrderRepository, payments PaymentService) OrderService {
	return &orderService{orders: orders, payments: payments}
}

func (s *orderService) Confirmation(ctx context.Context, orderID, sessionID string) (*Confirmation, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return &Confirmation{
			OrderID:           orderID,
			OrderNumber:       orderID,
			Status:            ConfirmationUnverified,
			EstimatedDelivery: EstimatedDelivery,
		}, nil
	}

	result, err := s.payments.CompletePayment(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	confirmation := &Confirmation{
		OrderID:           orderID,
		OrderNumber:       orderID,
		Paid:              result.Paid,
		Reason:            result.Reason,
		EstimatedDelivery: EstimatedDelivery,
	}
	if !result.Paid {
		confirmation.Status = ConfirmationFailed
		return confirmation, nil
	}

	confirmation.Status = ConfirmationVerified
	if result.OrderID != "" {
		confirmation.OrderID = result.OrderID
	}
	if result.OrderNumber != "" {
		confirmation.OrderNumber = result.OrderNumber
	}
	if result.OrderRecorded {
		if order, err := s.orders.FindByID(ctx, result.OrderID); err == nil {
			confirmation.Order = order
		}
	}
	return confirmation, nil
}

func (s *orderService) List(ctx context.Context, sess *session.Session) ([]model.Order, error) {
	orders, err := retryRead(ctx, "order.list", func() ([]model.Order, error) {
		return s.orders.FindByUserID(ctx, sess.IdentityID())
	})
	if err != nil {
		return nil, fmt.Errorf("%w: list orders: %v", ErrNetwork, err)
	}
	return orders, nil
}

func (s *orderService) Get(ctx context.Context, sess *session.Session, orderID string) (*model.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("%w: load order: %v", ErrNetwork, err)
	}
	// other identities' orders read as missing
	if order.UserID != sess.IdentityID() {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

var exportHeaders = []string{
	"Order Number", "Placed At", "Status", "Payment", "Delivery",
	"Items", "Subtotal", "Tax", "Delivery Charge", "Total", "City", "Store",
}

// Export writes the identity's order history as a single-sheet workbook.
func (s *orderService) Export(ctx context.Context, sess *session.Session) ([]byte, error) {
	orders, err := s.List(ctx, sess)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Orders"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	if err := f.SetSheetRow(sheet, "A1", &exportHeaders); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for i, order := range orders {
		var items int64
		for _, line := range order.Items {
			items += line.Quantity
		}
		storeName := order.StoreID
		if order.Store != nil {
			storeName = order.Store.Name
		}
		row := []interface{}{
			order.OrderNumber,
			order.CreatedAt.Format("2006-01-02 15:04"),
			string(order.OrderStatus),
			string(order.PaymentStatus),
			string(order.DeliveryType),
			items,
			order.Subtotal.InexactFloat64(),
			order.Tax.InexactFloat64(),
			order.DeliveryCharge.InexactFloat64(),
			order.Total.InexactFloat64(),
			order.DeliveryAddress.City,
			storeName,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}

	logger.Info("Order history exported", map[string]interface{}{
		"identity_id": sess.IdentityID(),
		"orders":      len(orders),
	})
	return buf.Bytes(), nil
}
