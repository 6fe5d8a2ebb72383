package demostore

import (
	"context"
	"errors"

	"github.com/clozet/clozet-backend/internal/app/model"
	"github.com/clozet/clozet-backend/internal/app/store"
	appredis "github.com/clozet/clozet-backend/pkg/redis"
)

func (s *Store) GetProfile(ctx context.Context, identityID string) (*model.Profile, error) {
	var profile model.Profile
	if err := appredis.GetJSON(ctx, s.client, profileKey(identityID), &profile); err != nil {
		if errors.Is(err, appredis.ErrNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (s *Store) SaveProfile(ctx context.Context, profile *model.Profile) error {
	now := s.now()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now
	return appredis.SetJSON(ctx, s.client, profileKey(profile.UserID), profile, 0)
}
