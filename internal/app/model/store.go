package model

import (
	"time"

	"gorm.io/gorm"
)

type StoreStatus string

const (
	StoreStatusActive   StoreStatus = "active"
	StoreStatusInactive StoreStatus = "inactive"
)

// Store is a partner shop that fulfils orders. IDs are stable slugs so
// configuration can name the store checkout orders are placed against.
type Store struct {
	ID           string         `gorm:"primaryKey;size:64" json:"id"`                  // slug, e.g. clozet-vellore
	Name         string         `gorm:"size:100;not null" json:"name"`                 // display name
	Rating       float64        `gorm:"type:numeric(2,1);default:0" json:"rating"`     // 0.0 to 5.0
	TotalReviews int            `gorm:"default:0" json:"total_reviews"`                // review count behind Rating
	LogoURL      string         `gorm:"type:text" json:"logo_url,omitempty"`           // square logo
	Address      string         `gorm:"type:text" json:"address,omitempty"`            // street address
	LocationLat  float64        `gorm:"type:numeric(10,7)" json:"location_lat"`        // WGS84
	LocationLng  float64        `gorm:"type:numeric(10,7)" json:"location_lng"`        // WGS84
	Status       StoreStatus    `gorm:"type:varchar(20);not null;index" json:"status"` // active stores are listed and sell
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Products []Product `gorm:"foreignKey:StoreID" json:"-"`
}

func (Store) TableName() string {
	return "stores"
}

func (s *Store) Active() bool {
	return s.Status == StoreStatusActive
}
