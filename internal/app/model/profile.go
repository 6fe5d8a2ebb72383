package model

import "time"

// StylePreferences is captured during onboarding.
type StylePreferences struct {
	Categories []string          `json:"categories"`
	Brands     []string          `json:"brands,omitempty"`
	Sizes      map[string]string `json:"sizes,omitempty"`
}

type Profile struct {
	UserID              string           `gorm:"primaryKey;size:64" json:"user_id"`                  // identity ID
	Name                string           `gorm:"size:100" json:"name"`                               // display name
	Phone               string           `gorm:"size:30" json:"phone"`                               // contact phone
	Gender              string           `gorm:"size:20" json:"gender,omitempty"`                    // free-form
	DateOfBirth         *string          `gorm:"size:10" json:"date_of_birth,omitempty"`             // YYYY-MM-DD
	AvatarURL           string           `gorm:"type:text" json:"avatar_url,omitempty"`              // S3 URL
	StylePreferences    StylePreferences `gorm:"type:text;serializer:json" json:"style_preferences"` // onboarding tags
	OnboardingCompleted bool             `gorm:"default:false" json:"onboarding_completed"`          // gates the dashboard
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

// Redirect is the client route a freshly authenticated identity is sent to.
func (p *Profile) Redirect() string {
	if p != nil && p.OnboardingCompleted {
		return RouteDashboard
	}
	return RouteOnboarding
}

// Client routes returned as redirect targets.
const (
	RouteDashboard  = "/dashboard"
	RouteOnboarding = "/onboarding"
	RouteCheckout   = "/checkout"
)
