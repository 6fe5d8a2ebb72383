// Package store defines the persistence contract shared by the remote (gorm)
// and demo (redis) backends. A session picks one backend at login; callers
// never branch on identity provenance.
package store

import (
	"context"
	"errors"

	"github.com/clozet/clozet-backend/internal/app/model"
)

var ErrNotFound = errors.New("record not found")

type AddressStore interface {
	// ListAddresses returns the identity's addresses, default first, then oldest first.
	ListAddresses(ctx context.Context, identityID string) ([]model.Address, error)
	GetAddress(ctx context.Context, identityID, addressID string) (*model.Address, error)
	// CreateAddress assigns ID and timestamps and sets IsDefault iff it is the identity's first address.
	CreateAddress(ctx context.Context, identityID string, address *model.Address) error
	// UpdateAddress replaces the editable fields; IsDefault is left as stored.
	UpdateAddress(ctx context.Context, identityID string, address *model.Address) error
	// SetDefaultAddress makes addressID the only default for the identity.
	SetDefaultAddress(ctx context.Context, identityID, addressID string) error
	DeleteAddress(ctx context.Context, identityID, addressID string) error
}

type ProfileStore interface {
	GetProfile(ctx context.Context, identityID string) (*model.Profile, error)
	SaveProfile(ctx context.Context, profile *model.Profile) error
}

type CartStore interface {
	ListCartLines(ctx context.Context, identityID string) ([]model.CartLine, error)
	AddCartLine(ctx context.Context, identityID string, line *model.CartLine) error
	// SetCartLineQuantity updates a line; a quantity of zero or less removes it.
	SetCartLineQuantity(ctx context.Context, identityID, lineID string, quantity int) error
	RemoveCartLine(ctx context.Context, identityID, lineID string) error
	ClearCart(ctx context.Context, identityID string) error
}

// Stores is the set of backends bound to one session.
type Stores struct {
	Kind      Kind
	Addresses AddressStore
	Profiles  ProfileStore
	Carts     CartStore
}

type Kind string

const (
	KindRemote Kind = "remote"
	KindDemo   Kind = "demo"
)

// Selector hands out the remote or demo backends for an identity.
type Selector struct {
	remote Stores
	demo   Stores
}

func NewSelector(remote, demo Stores) *Selector {
	remote.Kind = KindRemote
	demo.Kind = KindDemo
	return &Selector{remote: remote, demo: demo}
}

// For returns the backends for identity. Demo identities never reach the remote store.
func (s *Selector) For(identity *model.Identity) Stores {
	if identity.IsDemo() {
		return s.demo
	}
	return s.remote
}
