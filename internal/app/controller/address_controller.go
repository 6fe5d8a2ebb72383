package controller

import (
	"net/http"

	"github.com/clozet/clozet-backend/internal/app/model"
	"github.com/clozet/clozet-backend/internal/app/service"
	apperrors "github.com/clozet/clozet-backend/internal/errors"
	"github.com/gin-gonic/gin"
)

type AddressController struct {
	addressService service.AddressService
}

func NewAddressController(addressService service.AddressService) *AddressController {
	return &AddressController{
		addressService: addressService,
	}
}

// ListAddresses returns the address book, default first
// GET /api/v1/addresses
func (ctrl *AddressController) ListAddresses(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	addresses, err := ctrl.addressService.List(c.Request.Context(), sess)
	if err != nil {
		respondError(c, err, "list addresses")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"addresses": addresses,
		"count":     len(addresses),
	})
}

// CreateAddress adds an address; the first one becomes the default
// POST /api/v1/addresses
func (ctrl *AddressController) CreateAddress(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	var fields model.AddressFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return
	}

	address, err := ctrl.addressService.Create(c.Request.Context(), sess, fields)
	if err != nil {
		respondError(c, err, "create address")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"address": address})
}

// UpdateAddress replaces the editable fields
// PUT /api/v1/addresses/:id
func (ctrl *AddressController) UpdateAddress(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	var fields model.AddressFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return
	}

	address, err := ctrl.addressService.Update(c.Request.Context(), sess, c.Param("id"), fields)
	if err != nil {
		respondError(c, err, "update address")
		return
	}
	c.JSON(http.StatusOK, gin.H{"address": address})
}

// SetDefaultAddress makes the address the only default
// PUT /api/v1/addresses/:id/default
func (ctrl *AddressController) SetDefaultAddress(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	if err := ctrl.addressService.SetDefault(c.Request.Context(), sess, c.Param("id")); err != nil {
		respondError(c, err, "set default address")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Default address updated"})
}

// DeleteAddress removes an address
// DELETE /api/v1/addresses/:id
func (ctrl *AddressController) DeleteAddress(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	if err := ctrl.addressService.Delete(c.Request.Context(), sess, c.Param("id")); err != nil {
		respondError(c, err, "delete address")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Address deleted"})
}
