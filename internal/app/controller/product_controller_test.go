package controller

import (
	"net/http"
	"testing"

	"github.com/clozet/clozet-backend/internal/app/model"
	"github.com/clozet/clozet-backend/internal/db"
	apperrors "github.com/clozet/clozet-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type productListResponse struct {
	Products []model.Product `json:"products"`
	Count    int             `json:"count"`
}

type productDetailResponse struct {
	Product         model.Product `json:"product"`
	DiscountPercent int           `json:"discount_percent"`
}

func TestProductController_GetProducts(t *testing.T) {
	srv := newTestServer(t, nil)

	w := srv.do(http.MethodGet, "/api/v1/products", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var all productListResponse
	decode(t, w, &all)
	assert.Equal(t, 7, all.Count, "unavailable items and closed stores are hidden")
	assert.Len(t, all.Products, 7)

	w = srv.do(http.MethodGet, "/api/v1/products?category=streetwear&sort=price_asc", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var streetwear productListResponse
	decode(t, w, &streetwear)
	require.Len(t, streetwear.Products, 2)
	assert.Equal(t, "Oversized Graphic Hoodie", streetwear.Products[0].Title)
	assert.Equal(t, "Designer Jeans", streetwear.Products[1].Title)

	w = srv.do(http.MethodGet, "/api/v1/products?search=atelier&limit=1", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var limited productListResponse
	decode(t, w, &limited)
	assert.Equal(t, 1, limited.Count)
}

func TestProductController_GetProducts_InvalidFilter(t *testing.T) {
	srv := newTestServer(t, nil)

	w := srv.do(http.MethodGet, "/api/v1/products?category=pyjamas", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.ValidationRequired, errorCode(t, w))

	w = srv.do(http.MethodGet, "/api/v1/products?sort=cheapest", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductController_GetProductByID(t *testing.T) {
	srv := newTestServer(t, nil)

	w := srv.do(http.MethodGet, "/api/v1/products/"+db.CatalogProductID("designer-jeans"), "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body productDetailResponse
	decode(t, w, &body)
	assert.Equal(t, "Designer Jeans", body.Product.Title)
	assert.Equal(t, 29, body.DiscountPercent)
	require.NotNil(t, body.Product.Store)
	assert.Equal(t, "Clozet Vellore", body.Product.Store.Name)
	assert.NotEmpty(t, body.Product.Variants)
}

func TestProductController_GetProductByID_NotFound(t *testing.T) {
	srv := newTestServer(t, nil)

	w := srv.do(http.MethodGet, "/api/v1/products/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperrors.ProductNotFound, errorCode(t, w))
}
