package repository

import (
	"context"

	"github.com/clozet/clozet-backend/internal/app/model"
	"github.com/clozet/clozet-backend/internal/app/store"
	"github.com/clozet/clozet-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) store.CartStore {
	return &cartRepository{db: db}
}

func (r *cartRepository) ListCartLines(ctx context.Context, identityID string) ([]model.CartLine, error) {
	var lines []model.CartLine
	err := r.db.WithContext(ctx).
		Where("user_id = ?", identityID).
		Order("created_at ASC, id ASC").
		Find(&lines).Error
	if err != nil {
		logger.Error("Failed to find cart lines", err, map[string]interface{}{
			"user_id": identityID,
		})
		return nil, err
	}
	return lines, nil
}

func (r *cartRepository) AddCartLine(ctx context.Context, identityID string, line *model.CartLine) error {
	if line.ID == "" {
		line.ID = uuid.NewString()
	}
	line.UserID = identityID
	if err := r.db.WithContext(ctx).Create(line).Error; err != nil {
		logger.Error("Failed to add cart line", err, map[string]interface{}{
			"user_id": identityID,
			"title":   line.Title,
		})
		return err
	}
	return nil
}

func (r *cartRepository) SetCartLineQuantity(ctx context.Context, identityID, lineID string, quantity int) error {
	if quantity <= 0 {
		return r.RemoveCartLine(ctx, identityID, lineID)
	}

	result := r.db.WithContext(ctx).
		Model(&model.CartLine{}).
		Where("id = ? AND user_id = ?", lineID, identityID).
		Update("quantity", quantity)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *cartRepository) RemoveCartLine(ctx context.Context, identityID, lineID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", lineID, identityID).
		Delete(&model.CartLine{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *cartRepository) ClearCart(ctx context.Context, identityID string) error {
	return r.db.WithContext(ctx).Where("user_id = ?", identityID).Delete(&model.CartLine{}).Error
}
