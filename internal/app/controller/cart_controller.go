package controller

import (
	"net/http"

	"github.com/clozet/clozet-backend/internal/app/service"
	apperrors "github.com/clozet/clozet-backend/internal/errors"
	"github.com/gin-gonic/gin"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

type UpdateCartQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// GetCart returns the lines and totals
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	view, err := ctrl.cartService.Get(c.Request.Context(), sess)
	if err != nil {
		respondError(c, err, "load cart")
		return
	}
	c.JSON(http.StatusOK, view)
}

// AddToCart adds a line
// POST /api/v1/cart
func (ctrl *CartController) AddToCart(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	var req service.CartLineInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return
	}

	view, err := ctrl.cartService.Add(c.Request.Context(), sess, req)
	if err != nil {
		respondError(c, err, "add to cart")
		return
	}
	c.JSON(http.StatusCreated, view)
}

// UpdateCartLine sets the quantity; zero removes the line
// PUT /api/v1/cart/:id
func (ctrl *CartController) UpdateCartLine(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	var req UpdateCartQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithValidationError(c, map[string]string{"quantity": "is required"})
		return
	}

	view, err := ctrl.cartService.SetQuantity(c.Request.Context(), sess, c.Param("id"), *req.Quantity)
	if err != nil {
		respondError(c, err, "update cart")
		return
	}
	c.JSON(http.StatusOK, view)
}

// RemoveFromCart deletes a line
// DELETE /api/v1/cart/:id
func (ctrl *CartController) RemoveFromCart(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	view, err := ctrl.cartService.Remove(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		respondError(c, err, "remove from cart")
		return
	}
	c.JSON(http.StatusOK, view)
}

// ClearCart empties the cart
// DELETE /api/v1/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	view, err := ctrl.cartService.Clear(c.Request.Context(), sess)
	if err != nil {
		respondError(c, err, "clear cart")
		return
	}
	c.JSON(http.StatusOK, view)
}
