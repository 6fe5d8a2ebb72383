package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type CartLine struct {
	ID        string          `gorm:"primaryKey;size:64" json:"id"`                  // cart line ID
	UserID    string          `gorm:"size:64;not null;index" json:"user_id"`         // owning identity
	Title     string          `gorm:"size:200;not null" json:"title"`                // product title
	Variant   string          `gorm:"size:100" json:"variant"`                       // e.g. "Medium / Blue"
	Image     string          `gorm:"type:text" json:"image,omitempty"`              // product image URL
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"` // INR
	Quantity  int             `gorm:"not null" json:"quantity"`                      // > 0, zero removes the line
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (CartLine) TableName() string {
	return "cart_lines"
}

// LineTotal is unit price times quantity.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
