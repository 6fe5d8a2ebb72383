package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string   // fulfilment lifecycle
type PaymentStatus string // settled or not
type DeliveryType string  // delivery tier

const (
	OrderStatusPlaced         OrderStatus = "placed"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusPacked         OrderStatus = "packed"
	OrderStatusPickedUp       OrderStatus = "picked_up"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"

	PaymentStatusPaid   PaymentStatus = "paid"
	PaymentStatusUnpaid PaymentStatus = "unpaid"

	DeliveryExpress  DeliveryType = "express"
	DeliveryStandard DeliveryType = "standard"
)

func (d DeliveryType) Valid() bool {
	return d == DeliveryExpress || d == DeliveryStandard
}

type Order struct {
	ID              string          `gorm:"primaryKey;size:255" json:"id"`              // payment session ID or order number
	OrderNumber     string          `gorm:"size:20;not null;index" json:"order_number"` // CLZ########
	UserID          string          `gorm:"size:64;not null;index" json:"user_id"`      // buyer identity
	StoreID         string          `gorm:"size:64;not null;index" json:"store_id"`     // fulfilling store
	Items           []OrderLine     `gorm:"type:text;serializer:json" json:"items"`     // line item snapshot
	Subtotal        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"subtotal"`
	Tax             decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"tax"`
	DeliveryCharge  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"delivery_charge"`
	Total           decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`
	DeliveryAddress AddressSnapshot `gorm:"type:text;serializer:json" json:"delivery_address"` // frozen at payment time
	DeliveryType    DeliveryType    `gorm:"type:varchar(20);default:'express'" json:"delivery_type"`
	PaymentStatus   PaymentStatus   `gorm:"type:varchar(20);default:'unpaid'" json:"payment_status"`
	OrderStatus     OrderStatus     `gorm:"type:varchar(30);default:'placed'" json:"order_status"`
	StripeSessionID string          `gorm:"size:255;index" json:"stripe_session_id,omitempty"` // set on the reconciliation path
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	// Relationships
	Store *Store `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"store,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

type OrderLine struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}
