package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductCategory string

const (
	CategoryStreetwear  ProductCategory = "streetwear"
	CategoryFootwear    ProductCategory = "footwear"
	CategoryCasual      ProductCategory = "casual"
	CategoryAthleisure  ProductCategory = "athleisure"
	CategoryLuxury      ProductCategory = "luxury"
	CategoryAccessories ProductCategory = "accessories"
	CategoryOuterwear   ProductCategory = "outerwear"
)

// ProductCategories is the browse order of the category chips.
var ProductCategories = []ProductCategory{
	CategoryStreetwear,
	CategoryFootwear,
	CategoryCasual,
	CategoryAthleisure,
	CategoryLuxury,
	CategoryAccessories,
	CategoryOuterwear,
}

func (c ProductCategory) Valid() bool {
	for _, known := range ProductCategories {
		if c == known {
			return true
		}
	}
	return false
}

// ProductVariant is one size and colour combination.
type ProductVariant struct {
	Size  string `json:"size"`
	Color string `json:"color,omitempty"`
	Stock int    `json:"stock"`
}

type Product struct {
	ID               string           `gorm:"primaryKey;size:64" json:"id"`
	StoreID          string           `gorm:"size:64;not null;index" json:"store_id"`
	Store            *Store           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"store,omitempty"`
	Title            string           `gorm:"size:200;not null" json:"title"`
	Description      string           `gorm:"type:text" json:"description"`
	Brand            string           `gorm:"size:100;index" json:"brand"`
	Category         ProductCategory  `gorm:"type:varchar(50);index" json:"category"`
	Price            decimal.Decimal  `gorm:"type:numeric(12,2);not null" json:"price"` // INR
	MRP              decimal.Decimal  `gorm:"type:numeric(12,2)" json:"mrp"`            // list price before discount
	Images           []string         `gorm:"type:text;serializer:json" json:"images"`
	Material         string           `gorm:"size:100" json:"material,omitempty"`
	CareInstructions string           `gorm:"type:text" json:"care_instructions,omitempty"`
	Variants         []ProductVariant `gorm:"type:text;serializer:json" json:"variants"`
	IsAvailable      bool             `gorm:"not null;index" json:"is_available"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
	DeletedAt        gorm.DeletedAt   `gorm:"index" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

// DiscountPercent is the whole-percent saving against MRP, 0 when there is none.
func (p *Product) DiscountPercent() int {
	if !p.MRP.IsPositive() || !p.Price.LessThan(p.MRP) {
		return 0
	}
	return int(p.MRP.Sub(p.Price).Div(p.MRP).Mul(decimal.NewFromInt(100)).Round(0).IntPart())
}
