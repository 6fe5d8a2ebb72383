package demostore

import (
	"context"

	"github.com/clozet/clozet-backend/internal/app/model"
	"github.com/clozet/clozet-backend/internal/app/store"
	"github.com/google/uuid"
)

func (s *Store) ListCartLines(ctx context.Context, identityID string) ([]model.CartLine, error) {
	return readList[model.CartLine](ctx, s.client, cartKey(identityID))
}

func (s *Store) AddCartLine(ctx context.Context, identityID string, line *model.CartLine) error {
	if line.ID == "" {
		line.ID = uuid.NewString()
	}
	now := s.now()
	line.UserID = identityID
	line.CreatedAt = now
	line.UpdatedAt = now
	return mutateList(ctx, s.client, cartKey(identityID), func(lines []model.CartLine) ([]model.CartLine, error) {
		return append(lines, *line), nil
	})
}

func (s *Store) SetCartLineQuantity(ctx context.Context, identityID, lineID string, quantity int) error {
	return mutateList(ctx, s.client, cartKey(identityID), func(lines []model.CartLine) ([]model.CartLine, error) {
		for i := range lines {
			if lines[i].ID != lineID {
				continue
			}
			if quantity <= 0 {
				return append(lines[:i], lines[i+1:]...), nil
			}
			lines[i].Quantity = quantity
			lines[i].UpdatedAt = s.now()
			return lines, nil
		}
		return nil, store.ErrNotFound
	})
}

func (s *Store) RemoveCartLine(ctx context.Context, identityID, lineID string) error {
	return s.SetCartLineQuantity(ctx, identityID, lineID, 0)
}

func (s *Store) ClearCart(ctx context.Context, identityID string) error {
	return s.client.Del(ctx, cartKey(identityID)).Err()
}
