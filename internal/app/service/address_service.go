package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/clozet/clozet-backend/internal/app/model"
	"github.com/clozet/clozet-backend/internal/app/session"
	"github.com/clozet/clozet-backend/internal/app/store"
	"github.com/clozet/clozet-backend/pkg/logger"
)

type AddressService interface {
	List(ctx context.Context, sess *session.Session) ([]model.Address, error)
	Get(ctx context.Context, sess *session.Session, addressID string) (*model.Address, error)
	Create(ctx context.Context, sess *session.Session, fields model.AddressFields) (*model.Address, error)
	Update(ctx context.Context, sess *session.Session, addressID string, fields model.AddressFields) (*model.Address, error)
	SetDefault(ctx context.Context, sess *session.Session, addressID string) error
	Delete(ctx context.Context, sess *session.Session, addressID string) error
}

type addressService struct{}

func NewAddressService() AddressService {
	return &addressService{}
}

func trimFields(f model.AddressFields) model.AddressFields {
	f.Label = strings.TrimSpace(f.Label)
	f.FullName = strings.TrimSpace(f.FullName)
	f.Phone = strings.TrimSpace(f.Phone)
	f.AddressLine1 = strings.TrimSpace(f.AddressLine1)
	f.AddressLine2 = strings.TrimSpace(f.AddressLine2)
	f.City = strings.TrimSpace(f.City)
	f.State = strings.TrimSpace(f.State)
	f.PostalCode = strings.TrimSpace(f.PostalCode)
	return f
}

func storeErr(err error, notFound error, op string) error {
	if errors.Is(err, store.ErrNotFound) {
		return notFound
	}
	return fmt.Errorf("%w: %s: %v", ErrNetwork, op, err)
}

func (s *addressService) List(ctx context.Context, sess *session.Session) ([]model.Address, error) {
	addresses, err := retryRead(ctx, "address.list", func() ([]model.Address, error) {
		return sess.Stores.Addresses.ListAddresses(ctx, sess.IdentityID())
	})
	if err != nil {
		logger.Error("Failed to list addresses", err, map[string]interface{}{
			"identity_id": sess.IdentityID(),
		})
		return nil, fmt.Errorf("%w: list addresses: %v", ErrNetwork, err)
	}
	return addresses, nil
}

func (s *addressService) Get(ctx context.Context, sess *session.Session, addressID string) (*model.Address, error) {
	address, err := sess.Stores.Addresses.GetAddress(ctx, sess.IdentityID(), addressID)
	if err != nil {
		return nil, storeErr(err, ErrAddressNotFound, "get address")
	}
	return address, nil
}

func (s *addressService) Create(ctx context.Context, sess *session.Session, fields model.AddressFields) (*model.Address, error) {
	fields = trimFields(fields)
	if err := validateStruct(fields); err != nil {
		return nil, err
	}

	address := &model.Address{}
	fields.Apply(address)
	if err := sess.Stores.Addresses.CreateAddress(ctx, sess.IdentityID(), address); err != nil {
		logger.Error("Failed to create address", err, map[string]interface{}{
			"identity_id": sess.IdentityID(),
		})
		return nil, fmt.Errorf("%w: create address: %v", ErrNetwork, err)
	}

	logger.Info("Address created", map[string]interface{}{
		"identity_id": sess.IdentityID(),
		"address_id":  address.ID,
		"is_default":  address.IsDefault,
	})
	return address, nil
}

func (s *addressService) Update(ctx context.Context, sess *session.Session, addressID string, fields model.AddressFields) (*model.Address, error) {
	fields = trimFields(fields)
	if err := validateStruct(fields); err != nil {
		return nil, err
	}

	address := &model.Address{ID: addressID}
	fields.Apply(address)
	if err := sess.Stores.Addresses.UpdateAddress(ctx, sess.IdentityID(), address); err != nil {
		return nil, storeErr(err, ErrAddressNotFound, "update address")
	}
	return address, nil
}

func (s *addressService) SetDefault(ctx context.Context, sess *session.Session, addressID string) error {
	if err := sess.Stores.Addresses.SetDefaultAddress(ctx, sess.IdentityID(), addressID); err != nil {
		return storeErr(err, ErrAddressNotFound, "set default address")
	}
	logger.Info("Default address changed", map[string]interface{}{
		"identity_id": sess.IdentityID(),
		"address_id":  addressID,
	})
	return nil
}

// Delete removes the address. If it was the default, no other address is promoted.
func (s *addressService) Delete(ctx context.Context, sess *session.Session, addressID string) error {
	if err := sess.Stores.Addresses.DeleteAddress(ctx, sess.IdentityID(), addressID); err != nil {
		return storeErr(err, ErrAddressNotFound, "delete address")
	}
	logger.Info("Address deleted", map[string]interface{}{
		"identity_id": sess.IdentityID(),
		"address_id":  addressID,
	})
	return nil
}
