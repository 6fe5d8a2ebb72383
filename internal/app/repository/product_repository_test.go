package repository

import (
	"context"
	"testing"

	"github.com/clozet/clozet-backend/internal/app/model"
	"github.com/clozet/clozet-backend/internal/app/store"
	"github.com/clozet/clozet-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCatalogTest(t *testing.T) *gorm.DB {
	testDB := setupRepositoryTest(t)
	require.NoError(t, db.SeedCatalog(testDB, "clozet-vellore"))
	return testDB
}

func titles(products []model.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Title)
	}
	return out
}

func TestProductRepository_FindWithFilter(t *testing.T) {
	repo := NewProductRepository(setupCatalogTest(t))
	ctx := context.Background()

	all, err := repo.FindWithFilter(ctx, ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 7)
	assert.NotContains(t, titles(all), "Silk Evening Blazer", "sold out")
	assert.NotContains(t, titles(all), "Raw Denim Jacket", "store is inactive")
	for _, p := range all {
		require.NotNil(t, p.Store)
		assert.Equal(t, p.StoreID, p.Store.ID)
	}

	withSoldOut, err := repo.FindWithFilter(ctx, ProductFilter{IncludeUnavailable: true})
	require.NoError(t, err)
	assert.Len(t, withSoldOut, 8)
	assert.Contains(t, titles(withSoldOut), "Silk Evening Blazer")

	streetwear := model.CategoryStreetwear
	byCategory, err := repo.FindWithFilter(ctx, ProductFilter{Category: &streetwear})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Designer Jeans", "Oversized Graphic Hoodie"}, titles(byCategory))

	byStore, err := repo.FindWithFilter(ctx, ProductFilter{StoreID: "urban-threads-vellore"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Oversized Graphic Hoodie", "Performance Joggers"}, titles(byStore))
}

func TestProductRepository_SearchTitleAndBrand(t *testing.T) {
	repo := NewProductRepository(setupCatalogTest(t))
	ctx := context.Background()

	byTitle, err := repo.FindWithFilter(ctx, ProductFilter{Search: "SNEAKER"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Classic White Sneakers"}, titles(byTitle))

	byBrand, err := repo.FindWithFilter(ctx, ProductFilter{Search: "atelier"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Leather Crossbody Bag", "Wool Blend Overcoat"}, titles(byBrand))

	// the search is grouped, so it cannot widen past the availability filter
	soldOut, err := repo.FindWithFilter(ctx, ProductFilter{Search: "noor"})
	require.NoError(t, err)
	assert.Empty(t, soldOut)
}

func TestProductRepository_SortAndPage(t *testing.T) {
	repo := NewProductRepository(setupCatalogTest(t))
	ctx := context.Background()

	cheapest, err := repo.FindWithFilter(ctx, ProductFilter{SortBy: ProductSortPriceAsc, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"Premium Cotton T-Shirt", "Performance Joggers"}, titles(cheapest))

	next, err := repo.FindWithFilter(ctx, ProductFilter{SortBy: ProductSortPriceAsc, Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"Oversized Graphic Hoodie", "Designer Jeans"}, titles(next))

	dearest, err := repo.FindWithFilter(ctx, ProductFilter{SortBy: ProductSortPriceDesc, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"Wool Blend Overcoat"}, titles(dearest))
}

func TestProductRepository_FindByID(t *testing.T) {
	repo := NewProductRepository(setupCatalogTest(t))
	ctx := context.Background()

	product, err := repo.FindByID(ctx, db.CatalogProductID("leather-crossbody-bag"))
	require.NoError(t, err)
	assert.Equal(t, "Vegetable-tanned leather", product.Material)
	assert.Equal(t, "Condition every three months, keep dry", product.CareInstructions)
	require.Len(t, product.Variants, 2)
	assert.Equal(t, "Tan", product.Variants[0].Color)
	require.NotNil(t, product.Store)
	assert.Equal(t, "Clozet Vellore", product.Store.Name)
	assert.Equal(t, "3499.00", product.Price.StringFixed(2))

	// sold-out products still have a detail page
	_, err = repo.FindByID(ctx, db.CatalogProductID("silk-evening-blazer"))
	assert.NoError(t, err)

	_, err = repo.FindByID(ctx, db.CatalogProductID("raw-denim-jacket"))
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
