package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/clozet/clozet-backend/internal/app/model"
	"github.com/clozet/clozet-backend/internal/app/repository"
	"github.com/clozet/clozet-backend/internal/app/store"
)

const MaxStoreLimit = 50

type StoreService interface {
	// ListActive returns active stores, best rated first. limit <= 0 returns up to MaxStoreLimit.
	ListActive(ctx context.Context, limit int) ([]model.Store, error)
	// Get returns an active store; inactive stores read as missing.
	Get(ctx context.Context, id string) (*model.Store, error)
}

type storeService struct {
	stores repository.StoreRepository
}

func NewStoreService(stores repository.StoreRepository) StoreService {
	return &storeService{stores: stores}
}

func (s *storeService) ListActive(ctx context.Context, limit int) ([]model.Store, error) {
	if limit <= 0 || limit > MaxStoreLimit {
		limit = MaxStoreLimit
	}
	stores, err := retryRead(ctx, "store.list", func() ([]model.Store, error) {
		return s.stores.FindActive(ctx, limit)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: list stores: %v", ErrNetwork, err)
	}
	return stores, nil
}

func (s *storeService) Get(ctx context.Context, id string) (*model.Store, error) {
	found, err := retryRead(ctx, "store.get", func() (*model.Store, error) {
		return s.stores.FindByID(ctx, id)
	})
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrStoreNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load store: %v", ErrNetwork, err)
	}
	if !found.Active() {
		return nil, ErrStoreNotFound
	}
	return found, nil
}
