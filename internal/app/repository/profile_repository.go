package repository

import (
	"context"

	"github.com/clozet/clozet-backend/internal/app/model"
	"github.com/clozet/clozet-backend/internal/app/store"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) store.ProfileStore {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetProfile(ctx context.Context, identityID string) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", identityID).First(&profile).Error; err != nil {
		return nil, translate(err)
	}
	return &profile, nil
}

// SaveProfile inserts or fully replaces the profile row.
func (r *profileRepository) SaveProfile(ctx context.Context, profile *model.Profile) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(profile).Error
}
