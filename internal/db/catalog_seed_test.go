package db

import (
	"testing"

	"github.com/clozet/clozet-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedCatalog_Idempotent(t *testing.T) {
	conn, err := SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { CleanupTestDB(conn) })

	require.NoError(t, SeedCatalog(conn, "clozet-vellore"))
	require.NoError(t, SeedCatalog(conn, "clozet-vellore"))

	var stores, products int64
	require.NoError(t, conn.Model(&model.Store{}).Count(&stores).Error)
	require.NoError(t, conn.Model(&model.Product{}).Count(&products).Error)
	assert.Equal(t, int64(4), stores)
	assert.Equal(t, int64(9), products)

	var flagship model.Store
	require.NoError(t, conn.First(&flagship, "id = ?", "clozet-vellore").Error)
	assert.Equal(t, model.StoreStatusActive, flagship.Status)

	var tee model.Product
	require.NoError(t, conn.First(&tee, "id = ?", CatalogProductID("premium-cotton-tshirt")).Error)
	assert.Equal(t, "clozet-vellore", tee.StoreID)
	assert.Equal(t, "899.00", tee.Price.StringFixed(2))
	assert.Equal(t, 31, tee.DiscountPercent())
}

func TestSeedCatalog_ConfiguredFlagship(t *testing.T) {
	conn, err := SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { CleanupTestDB(conn) })

	require.NoError(t, SeedCatalog(conn, "clozet-chennai"))

	var jeans model.Product
	require.NoError(t, conn.First(&jeans, "id = ?", CatalogProductID("designer-jeans")).Error)
	assert.Equal(t, "clozet-chennai", jeans.StoreID)
}

func TestCatalogProductID_Stable(t *testing.T) {
	assert.Equal(t, CatalogProductID("designer-jeans"), CatalogProductID("designer-jeans"))
	assert.NotEqual(t, CatalogProductID("designer-jeans"), CatalogProductID("premium-cotton-tshirt"))
}

func TestSetupTestDB_OneDefaultAddressIndex(t *testing.T) {
	conn, err := SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { CleanupTestDB(conn) })

	first := model.Address{ID: "a-1", UserID: "id-1", FullName: "Asha", Phone: "1", AddressLine1: "x", City: "Vellore", State: "TN", PostalCode: "632014", IsDefault: true}
	second := first
	second.ID = "a-2"
	require.NoError(t, conn.Create(&first).Error)
	assert.Error(t, conn.Create(&second).Error)

	second.IsDefault = false
	assert.NoError(t, conn.Create(&second).Error)
}
