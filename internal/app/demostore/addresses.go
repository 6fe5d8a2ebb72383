package demostore

import (
	"context"
	"sort"

	"github.com/clozet/clozet-backend/internal/app/model"
	"github.com/clozet/clozet-backend/internal/app/store"
	"github.com/clozet/clozet-backend/pkg/util"
)

func (s *Store) ListAddresses(ctx context.Context, identityID string) ([]model.Address, error) {
	addresses, err := readList[model.Address](ctx, s.client, addressesKey(identityID))
	if err != nil {
		return nil, err
	}
	// stored in creation order, so a stable sort keeps that order behind the default
	sort.SliceStable(addresses, func(i, j int) bool {
		return addresses[i].IsDefault && !addresses[j].IsDefault
	})
	return addresses, nil
}

func (s *Store) GetAddress(ctx context.Context, identityID, addressID string) (*model.Address, error) {
	addresses, err := readList[model.Address](ctx, s.client, addressesKey(identityID))
	if err != nil {
		return nil, err
	}
	for i := range addresses {
		if addresses[i].ID == addressID {
			return &addresses[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) CreateAddress(ctx context.Context, identityID string, address *model.Address) error {
	if address.ID == "" {
		suffix, err := util.RandomString(8)
		if err != nil {
			return err
		}
		address.ID = "addr-" + suffix
	}
	now := s.now()
	address.UserID = identityID
	address.CreatedAt = now
	address.UpdatedAt = now

	return mutateList(ctx, s.client, addressesKey(identityID), func(addresses []model.Address) ([]model.Address, error) {
		address.IsDefault = len(addresses) == 0
		return append(addresses, *address), nil
	})
}

func (s *Store) UpdateAddress(ctx context.Context, identityID string, address *model.Address) error {
	var updated model.Address
	err := mutateList(ctx, s.client, addressesKey(identityID), func(addresses []model.Address) ([]model.Address, error) {
		for i := range addresses {
			if addresses[i].ID != address.ID {
				continue
			}
			isDefault, createdAt := addresses[i].IsDefault, addresses[i].CreatedAt
			addresses[i] = *address
			addresses[i].UserID = identityID
			addresses[i].IsDefault = isDefault
			addresses[i].CreatedAt = createdAt
			addresses[i].UpdatedAt = s.now()
			updated = addresses[i]
			return addresses, nil
		}
		return nil, store.ErrNotFound
	})
	if err != nil {
		return err
	}
	*address = updated
	return nil
}

func (s *Store) SetDefaultAddress(ctx context.Context, identityID, addressID string) error {
	return mutateList(ctx, s.client, addressesKey(identityID), func(addresses []model.Address) ([]model.Address, error) {
		found := false
		for i := range addresses {
			addresses[i].IsDefault = addresses[i].ID == addressID
			found = found || addresses[i].IsDefault
		}
		if !found {
			return nil, store.ErrNotFound
		}
		return addresses, nil
	})
}

func (s *Store) DeleteAddress(ctx context.Context, identityID, addressID string) error {
	return mutateList(ctx, s.client, addressesKey(identityID), func(addresses []model.Address) ([]model.Address, error) {
		for i := range addresses {
			if addresses[i].ID == addressID {
				return append(addresses[:i], addresses[i+1:]...), nil
			}
		}
		return nil, store.ErrNotFound
	})
}
