package repository

import (
	"context"
	"testing"

	"github.com/clozet/clozet-backend/internal/app/model"
	"github.com/clozet/clozet-backend/internal/app/store"
	"github.com/clozet/clozet-backend/internal/app/store/storetest"
	"github.com/clozet/clozet-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRepositoryTest(t *testing.T) *gorm.DB {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB
}

func TestAddressRepository_Contract(t *testing.T) {
	storetest.RunAddressStoreSuite(t, func(t *testing.T) store.AddressStore {
		return NewAddressRepository(setupRepositoryTest(t))
	})
}

func TestAddressRepository_DeleteIsSoft(t *testing.T) {
	testDB := setupRepositoryTest(t)
	repo := NewAddressRepository(testDB)
	ctx := context.Background()

	address := &model.Address{FullName: "Asha", Phone: "1", AddressLine1: "x", City: "Vellore", State: "TN", PostalCode: "632014"}
	require.NoError(t, repo.CreateAddress(ctx, "id-1", address))
	require.NoError(t, repo.DeleteAddress(ctx, "id-1", address.ID))

	var count int64
	require.NoError(t, testDB.Unscoped().Model(&model.Address{}).Where("id = ?", address.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// a soft-deleted address no longer counts toward "first address"
	next := &model.Address{FullName: "Ravi", Phone: "2", AddressLine1: "y", City: "Vellore", State: "TN", PostalCode: "632014"}
	require.NoError(t, repo.CreateAddress(ctx, "id-1", next))
	assert.True(t, next.IsDefault)
}

func TestAddressRepository_OneDefaultPerIdentity(t *testing.T) {
	testDB := setupRepositoryTest(t)
	repo := NewAddressRepository(testDB)
	ctx := context.Background()

	first := &model.Address{FullName: "Asha", Phone: "1", AddressLine1: "x", City: "Vellore", State: "TN", PostalCode: "632014"}
	require.NoError(t, repo.CreateAddress(ctx, "id-1", first))
	require.True(t, first.IsDefault)

	rogue := &model.Address{ID: "addr-rogue", UserID: "id-1", FullName: "Ravi", Phone: "2", AddressLine1: "y", City: "Vellore", State: "TN", PostalCode: "632014", IsDefault: true}
	assert.Error(t, testDB.Create(rogue).Error)

	// a create that counted before the first insert committed
	late := &model.Address{ID: "addr-late", UserID: "id-1", FullName: "Ravi", Phone: "2", AddressLine1: "y", City: "Vellore", State: "TN", PostalCode: "632014", IsDefault: true}
	require.NoError(t, insertAddress(testDB, late))
	assert.False(t, late.IsDefault)

	// other identities keep their own default
	other := &model.Address{ID: "addr-other", UserID: "id-2", FullName: "Meena", Phone: "3", AddressLine1: "z", City: "Vellore", State: "TN", PostalCode: "632014", IsDefault: true}
	require.NoError(t, insertAddress(testDB, other))
	assert.True(t, other.IsDefault)

	var defaults int64
	require.NoError(t, testDB.Model(&model.Address{}).Where("user_id = ? AND is_default = ?", "id-1", true).Count(&defaults).Error)
	assert.Equal(t, int64(1), defaults)

	require.NoError(t, repo.SetDefaultAddress(ctx, "id-1", late.ID))
	stored, err := repo.GetAddress(ctx, "id-1", first.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsDefault)
}

func TestProfileRepository_Contract(t *testing.T) {
	storetest.RunProfileStoreSuite(t, func(t *testing.T) store.ProfileStore {
		return NewProfileRepository(setupRepositoryTest(t))
	})
}

func TestCartRepository_Contract(t *testing.T) {
	storetest.RunCartStoreSuite(t, func(t *testing.T) store.CartStore {
		return NewCartRepository(setupRepositoryTest(t))
	})
}
