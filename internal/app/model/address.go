package model

import (
	"time"

	"gorm.io/gorm"
)

const DefaultAddressLabel = "home"

type Address struct {
	ID           string         `gorm:"primaryKey;size:64" json:"id"`                 // address ID
	UserID       string         `gorm:"size:64;not null;index" json:"user_id"`        // owning identity
	Label        string         `gorm:"size:50;not null;default:'home'" json:"label"` // home, work, other
	FullName     string         `gorm:"size:100;not null" json:"full_name"`           // recipient
	Phone        string         `gorm:"size:30;not null" json:"phone"`                // recipient phone
	AddressLine1 string         `gorm:"type:text;not null" json:"address_line1"`      // street
	AddressLine2 string         `gorm:"type:text" json:"address_line2,omitempty"`     // apartment, landmark
	City         string         `gorm:"size:100;not null" json:"city"`
	State        string         `gorm:"size:100;not null" json:"state"`
	PostalCode   string         `gorm:"size:20;not null" json:"postal_code"`
	IsDefault    bool           `gorm:"default:false" json:"is_default"` // at most one per identity
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"` // soft delete
}

func (Address) TableName() string {
	return "addresses"
}

// AddressFields are the user-editable parts of an address.
type AddressFields struct {
	Label        string `json:"label"`
	FullName     string `json:"full_name" validate:"required"`
	Phone        string `json:"phone" validate:"required"`
	AddressLine1 string `json:"address_line1" validate:"required"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city" validate:"required"`
	State        string `json:"state" validate:"required"`
	PostalCode   string `json:"postal_code" validate:"required"`
}

// Apply copies the editable fields onto a, leaving ID, owner and default flag alone.
func (f AddressFields) Apply(a *Address) {
	a.Label = f.Label
	if a.Label == "" {
		a.Label = DefaultAddressLabel
	}
	a.FullName = f.FullName
	a.Phone = f.Phone
	a.AddressLine1 = f.AddressLine1
	a.AddressLine2 = f.AddressLine2
	a.City = f.City
	a.State = f.State
	a.PostalCode = f.PostalCode
}

// Snapshot is the frozen copy stored on orders.
func (a *Address) Snapshot() AddressSnapshot {
	return AddressSnapshot{
		FullName:     a.FullName,
		Phone:        a.Phone,
		AddressLine1: a.AddressLine1,
		AddressLine2: a.AddressLine2,
		City:         a.City,
		State:        a.State,
		PostalCode:   a.PostalCode,
	}
}

type AddressSnapshot struct {
	FullName     string `json:"full_name"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
}
