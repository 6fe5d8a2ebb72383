package model

import (
	"strings"
	"time"
)

// DemoIDPrefix marks identities synthesized locally instead of issued by the identity provider.
const DemoIDPrefix = "demo-"

type Channel string

const (
	ChannelPhone Channel = "phone"
	ChannelEmail Channel = "email"
)

func (c Channel) Valid() bool {
	return c == ChannelPhone || c == ChannelEmail
}

type Identity struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`                // UUID, or demo-* for demo identities
	Email     *string   `gorm:"size:255;uniqueIndex" json:"email,omitempty"` // login email
	Phone     *string   `gorm:"size:30;index" json:"phone,omitempty"`        // login phone
	CreatedAt time.Time `json:"created_at"`                                  // first successful login
	Demo      bool      `gorm:"-" json:"demo"`                               // never persisted to identities
}

func (Identity) TableName() string {
	return "identities"
}

// IsDemo reports whether the identity was synthesized by the demo bypass.
func (i *Identity) IsDemo() bool {
	return i != nil && (i.Demo || strings.HasPrefix(i.ID, DemoIDPrefix))
}

// Identifier returns the email or phone the identity signed in with.
func (i *Identity) Identifier() string {
	if i.Email != nil {
		return *i.Email
	}
	if i.Phone != nil {
		return *i.Phone
	}
	return ""
}
