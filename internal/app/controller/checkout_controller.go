package controller

import (
	"net/http"

	"github.com/clozet/clozet-backend/internal/app/model"
	"github.com/clozet/clozet-backend/internal/app/service"
	apperrors "github.com/clozet/clozet-backend/internal/errors"
	"github.com/clozet/clozet-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type CheckoutController struct {
	checkoutService service.CheckoutService
}

func NewCheckoutController(checkoutService service.CheckoutService) *CheckoutController {
	return &CheckoutController{
		checkoutService: checkoutService,
	}
}

type SelectAddressRequest struct {
	AddressID string `json:"address_id" binding:"required"`
}

type ChooseDeliveryRequest struct {
	DeliveryType model.DeliveryType `json:"delivery_type" binding:"required"`
}

type CheckoutBackRequest struct {
	Step model.CheckoutStep `json:"step" binding:"required"`
}

// StartCheckout opens a draft at the address step
// POST /api/v1/checkout
func (ctrl *CheckoutController) StartCheckout(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	view, err := ctrl.checkoutService.Start(c.Request.Context(), sess)
	if err != nil {
		respondError(c, err, "start checkout")
		return
	}
	c.JSON(http.StatusCreated, view)
}

// GetCheckout returns the draft with its step data
// GET /api/v1/checkout/:id
func (ctrl *CheckoutController) GetCheckout(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	view, err := ctrl.checkoutService.Get(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		respondError(c, err, "get checkout")
		return
	}
	c.JSON(http.StatusOK, view)
}

// SelectAddress picks the delivery address
// PUT /api/v1/checkout/:id/address
func (ctrl *CheckoutController) SelectAddress(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	var req SelectAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithValidationError(c, map[string]string{"address_id": "is required"})
		return
	}

	view, err := ctrl.checkoutService.SelectAddress(c.Request.Context(), sess, c.Param("id"), req.AddressID)
	if err != nil {
		respondError(c, err, "select address")
		return
	}
	c.JSON(http.StatusOK, view)
}

// OpenAddressForm shows the inline new-address form
// POST /api/v1/checkout/:id/address-form
func (ctrl *CheckoutController) OpenAddressForm(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	view, err := ctrl.checkoutService.OpenAddressForm(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		respondError(c, err, "open address form")
		return
	}
	c.JSON(http.StatusOK, view)
}

// CloseAddressForm hides the form without saving
// DELETE /api/v1/checkout/:id/address-form
func (ctrl *CheckoutController) CloseAddressForm(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	view, err := ctrl.checkoutService.CloseAddressForm(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		respondError(c, err, "close address form")
		return
	}
	c.JSON(http.StatusOK, view)
}

// AddAddress saves the form and selects the new address
// POST /api/v1/checkout/:id/addresses
func (ctrl *CheckoutController) AddAddress(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	var fields model.AddressFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return
	}

	view, err := ctrl.checkoutService.AddAddress(c.Request.Context(), sess, c.Param("id"), fields)
	if err != nil {
		respondError(c, err, "add checkout address")
		return
	}
	c.JSON(http.StatusCreated, view)
}

// ChooseDelivery sets standard or express delivery
// PUT /api/v1/checkout/:id/delivery
func (ctrl *CheckoutController) ChooseDelivery(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	var req ChooseDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.CheckoutInvalidDelivery, "Please choose a delivery option")
		return
	}

	view, err := ctrl.checkoutService.ChooseDelivery(c.Request.Context(), sess, c.Param("id"), req.DeliveryType)
	if err != nil {
		respondError(c, err, "choose delivery")
		return
	}
	c.JSON(http.StatusOK, view)
}

// NextStep advances the wizard
// POST /api/v1/checkout/:id/next
func (ctrl *CheckoutController) NextStep(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	view, err := ctrl.checkoutService.Next(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		respondError(c, err, "next checkout step")
		return
	}
	c.JSON(http.StatusOK, view)
}

// BackToStep returns to an earlier step
// POST /api/v1/checkout/:id/back
func (ctrl *CheckoutController) BackToStep(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	var req CheckoutBackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithValidationError(c, map[string]string{"step": "is required"})
		return
	}

	view, err := ctrl.checkoutService.Back(c.Request.Context(), sess, c.Param("id"), req.Step)
	if err != nil {
		respondError(c, err, "checkout back")
		return
	}
	c.JSON(http.StatusOK, view)
}

// Pay hands the draft to the payment bridge
// POST /api/v1/checkout/:id/pay
func (ctrl *CheckoutController) Pay(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sess, ok := currentSession(c)
	if !ok {
		return
	}

	start, err := ctrl.checkoutService.Pay(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		respondError(c, err, "pay")
		return
	}

	log.Info("Payment started", map[string]interface{}{
		"identity_id": sess.IdentityID(),
		"order_id":    start.OrderID,
		"mode":        start.Mode,
	})
	c.JSON(http.StatusOK, start)
}
