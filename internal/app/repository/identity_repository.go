package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/clozet/clozet-backend/internal/app/model"
	"github.com/clozet/clozet-backend/internal/app/store"
	"github.com/clozet/clozet-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type IdentityRepository interface {
	FindByID(ctx context.Context, id string) (*model.Identity, error)
	FindByEmail(ctx context.Context, email string) (*model.Identity, error)
	// FindOrCreateByEmail returns the identity for email, creating it on first login.
	FindOrCreateByEmail(ctx context.Context, email string) (*model.Identity, bool, error)
}

type identityRepository struct {
	db *gorm.DB
}

func NewIdentityRepository(db *gorm.DB) IdentityRepository {
	return &identityRepository{db: db}
}

func (r *identityRepository) FindByID(ctx context.Context, id string) (*model.Identity, error) {
	var identity model.Identity
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&identity).Error; err != nil {
		return nil, translate(err)
	}
	return &identity, nil
}

func (r *identityRepository) FindByEmail(ctx context.Context, email string) (*model.Identity, error) {
	var identity model.Identity
	err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&identity).Error
	if err != nil {
		return nil, translate(err)
	}
	return &identity, nil
}

func (r *identityRepository) FindOrCreateByEmail(ctx context.Context, email string) (*model.Identity, bool, error) {
	email = strings.ToLower(email)

	existing, err := r.FindByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, false, err
	}

	identity := &model.Identity{
		ID:        uuid.NewString(),
		Email:     &email,
		CreatedAt: time.Now(),
	}
	if err := r.db.WithContext(ctx).Create(identity).Error; err != nil {
		// a concurrent first login for the same email won the insert
		if again, findErr := r.FindByEmail(ctx, email); findErr == nil {
			return again, false, nil
		}
		logger.Error("Failed to create identity", err)
		return nil, false, err
	}

	logger.Info("Identity created", map[string]interface{}{
		"identity_id": identity.ID,
	})
	return identity, true, nil
}
