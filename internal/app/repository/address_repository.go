package repository

import (
	"context"
	"errors"

	"github.com/clozet/clozet-backend/internal/app/model"
	"github.com/clozet/clozet-backend/internal/app/store"
	apperrors "github.com/clozet/clozet-backend/internal/errors"
	"github.com/clozet/clozet-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type addressRepository struct {
	db *gorm.DB
}

func NewAddressRepository(db *gorm.DB) store.AddressStore {
	return &addressRepository{db: db}
}

func (r *addressRepository) ListAddresses(ctx context.Context, identityID string) ([]model.Address, error) {
	logger.Debug("Finding addresses by user ID in database", map[string]interface{}{
		"user_id": identityID,
	})

	var addresses []model.Address
	err := r.db.WithContext(ctx).
		Where("user_id = ?", identityID).
		Order("is_default DESC, created_at ASC, id ASC").
		Find(&addresses).Error
	if err != nil {
		logger.Error("Failed to find addresses by user ID in database", err, map[string]interface{}{
			"user_id": identityID,
		})
		return nil, err
	}

	logger.Debug("Addresses found by user ID in database", map[string]interface{}{
		"user_id": identityID,
		"count":   len(addresses),
	})
	return addresses, nil
}

func (r *addressRepository) GetAddress(ctx context.Context, identityID, addressID string) (*model.Address, error) {
	var address model.Address
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", addressID, identityID).
		First(&address).Error
	if err != nil {
		return nil, translate(err)
	}
	return &address, nil
}

func (r *addressRepository) CreateAddress(ctx context.Context, identityID string, address *model.Address) error {
	logger.Debug("Creating address in database", map[string]interface{}{
		"user_id": identityID,
		"label":   address.Label,
	})

	if address.ID == "" {
		address.ID = uuid.NewString()
	}
	address.UserID = identityID

	conn := r.db.WithContext(ctx)
	var existing int64
	err := conn.Model(&model.Address{}).Where("user_id = ?", identityID).Count(&existing).Error
	if err == nil {
		address.IsDefault = existing == 0
		err = insertAddress(conn, address)
	}
	if err != nil {
		logger.Error("Failed to create address in database", err, map[string]interface{}{
			"user_id": identityID,
		})
		return err
	}

	logger.Debug("Address created in database", map[string]interface{}{
		"address_id": address.ID,
		"user_id":    identityID,
		"is_default": address.IsDefault,
	})
	return nil
}

// insertAddress creates address. The idx_addresses_one_default index rejects
// a second default for the same identity; when a concurrent create won that
// race the address is stored as a non-default instead.
func insertAddress(conn *gorm.DB, address *model.Address) error {
	err := conn.Create(address).Error
	if err == nil || !address.IsDefault || !apperrors.IsDuplicateKey(err) {
		return err
	}
	logger.Debug("Default address already claimed, storing as non-default", map[string]interface{}{
		"user_id": address.UserID,
	})
	address.IsDefault = false
	return conn.Create(address).Error
}

func (r *addressRepository) UpdateAddress(ctx context.Context, identityID string, address *model.Address) error {
	logger.Debug("Updating address in database", map[string]interface{}{
		"address_id": address.ID,
		"user_id":    identityID,
	})

	result := r.db.WithContext(ctx).
		Model(&model.Address{}).
		Where("id = ? AND user_id = ?", address.ID, identityID).
		Updates(map[string]interface{}{
			"label":         address.Label,
			"full_name":     address.FullName,
			"phone":         address.Phone,
			"address_line1": address.AddressLine1,
			"address_line2": address.AddressLine2,
			"city":          address.City,
			"state":         address.State,
			"postal_code":   address.PostalCode,
		})
	if result.Error != nil {
		logger.Error("Failed to update address in database", result.Error, map[string]interface{}{
			"address_id": address.ID,
			"user_id":    identityID,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}

	stored, err := r.GetAddress(ctx, identityID, address.ID)
	if err != nil {
		return err
	}
	*address = *stored
	return nil
}

func (r *addressRepository) SetDefaultAddress(ctx context.Context, identityID, addressID string) error {
	logger.Debug("Setting default address", map[string]interface{}{
		"user_id":    identityID,
		"address_id": addressID,
	})

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var target model.Address
		if err := tx.Where("id = ? AND user_id = ?", addressID, identityID).First(&target).Error; err != nil {
			return translate(err)
		}
		if err := tx.Model(&model.Address{}).
			Where("user_id = ? AND id <> ?", identityID, addressID).
			Update("is_default", false).Error; err != nil {
			return err
		}
		return tx.Model(&model.Address{}).
			Where("id = ? AND user_id = ?", addressID, identityID).
			Update("is_default", true).Error
	})
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			logger.Error("Failed to set default address", err, map[string]interface{}{
				"user_id":    identityID,
				"address_id": addressID,
			})
		}
		return err
	}

	logger.Debug("Default address set successfully", map[string]interface{}{
		"user_id":    identityID,
		"address_id": addressID,
	})
	return nil
}

func (r *addressRepository) DeleteAddress(ctx context.Context, identityID, addressID string) error {
	logger.Debug("Deleting address from database", map[string]interface{}{
		"address_id": addressID,
		"user_id":    identityID,
	})

	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", addressID, identityID).
		Delete(&model.Address{})
	if result.Error != nil {
		logger.Error("Failed to delete address from database", result.Error, map[string]interface{}{
			"address_id": addressID,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
