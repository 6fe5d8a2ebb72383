package controller

import (
	"net/http"
	"strconv"

	"github.com/clozet/clozet-backend/internal/app/service"
	"github.com/clozet/clozet-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

// GetProducts browses the catalog
// GET /api/v1/products?category=&search=&store_id=&available=&sort=&limit=&offset=
func (ctrl *ProductController) GetProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	products, err := ctrl.productService.List(c.Request.Context(), service.ProductQuery{
		Category:  c.Query("category"),
		Search:    c.Query("search"),
		StoreID:   c.Query("store_id"),
		Available: c.Query("available"),
		Sort:      c.Query("sort"),
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		respondError(c, err, "list products")
		return
	}

	log.Debug("Products fetched", map[string]interface{}{
		"count": len(products),
	})
	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// GetProductByID returns one product with its variants and store
// GET /api/v1/products/:id
func (ctrl *ProductController) GetProductByID(c *gin.Context) {
	product, err := ctrl.productService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "get product")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"product":          product,
		"discount_percent": product.DiscountPercent(),
	})
}
