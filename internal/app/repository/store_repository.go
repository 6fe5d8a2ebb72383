package repository

import (
	"context"

	"github.com/clozet/clozet-backend/internal/app/model"
	"github.com/clozet/clozet-backend/pkg/logger"
	"gorm.io/gorm"
)

type StoreRepository interface {
	// FindActive lists active stores, best rated first; limit <= 0 means no limit.
	FindActive(ctx context.Context, limit int) ([]model.Store, error)
	FindByID(ctx context.Context, id string) (*model.Store, error)
}

type storeRepository struct {
	db *gorm.DB
}

func NewStoreRepository(db *gorm.DB) StoreRepository {
	return &storeRepository{db: db}
}

func (r *storeRepository) FindActive(ctx context.Context, limit int) ([]model.Store, error) {
	logger.Debug("Finding active stores in database", map[string]interface{}{
		"limit": limit,
	})

	query := r.db.WithContext(ctx).
		Where("status = ?", model.StoreStatusActive).
		Order("rating DESC, total_reviews DESC, id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var stores []model.Store
	if err := query.Find(&stores).Error; err != nil {
		logger.Error("Failed to find active stores in database", err)
		return nil, err
	}

	logger.Debug("Active stores found in database", map[string]interface{}{
		"count": len(stores),
	})
	return stores, nil
}

func (r *storeRepository) FindByID(ctx context.Context, id string) (*model.Store, error) {
	var store model.Store
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&store).Error; err != nil {
		return nil, translate(err)
	}
	return &store, nil
}
