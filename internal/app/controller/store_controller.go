package controller

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/clozet/clozet-backend/internal/app/model"
	"github.com/clozet/clozet-backend/internal/app/service"
	"github.com/gin-gonic/gin"
)

type StoreController struct {
	storeService   service.StoreService
	productService service.ProductService
}

func NewStoreController(storeService service.StoreService, productService service.ProductService) *StoreController {
	return &StoreController{
		storeService:   storeService,
		productService: productService,
	}
}

// GetStores lists active stores
// GET /api/v1/stores?limit=
func (ctrl *StoreController) GetStores(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	stores, err := ctrl.storeService.ListActive(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err, "list stores")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"stores": stores,
		"count":  len(stores),
	})
}

// GetStoreByID returns an active store, optionally with its available products
// GET /api/v1/stores/:id?include_products=true
func (ctrl *StoreController) GetStoreByID(c *gin.Context) {
	ctx := c.Request.Context()
	found, err := ctrl.storeService.Get(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err, "get store")
		return
	}

	body := gin.H{"store": found}
	if strings.EqualFold(c.DefaultQuery("include_products", "false"), "true") {
		products, err := ctrl.productService.List(ctx, service.ProductQuery{StoreID: found.ID, Limit: service.MaxProductLimit})
		if err != nil {
			respondError(c, err, "list store products")
			return
		}
		if products == nil {
			products = []model.Product{}
		}
		body["products"] = products
	}
	c.JSON(http.StatusOK, body)
}
