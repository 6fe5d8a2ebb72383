package repository

import (
	"errors"

	"github.com/clozet/clozet-backend/internal/app/store"
	"gorm.io/gorm"
)

// translate maps gorm's not-found onto the store sentinel so services see one error per backend.
func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}
	return err
}

// NewStores wires the gorm-backed implementations of every store.
func NewStores(db *gorm.DB) store.Stores {
	return store.Stores{
		Addresses: NewAddressRepository(db),
		Profiles:  NewProfileRepository(db),
		Carts:     NewCartRepository(db),
	}
}
