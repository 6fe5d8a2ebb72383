package controller

import (
	"io"
	"net/http"

	"github.com/clozet/clozet-backend/internal/app/service"
	apperrors "github.com/clozet/clozet-backend/internal/errors"
	"github.com/clozet/clozet-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// maxWebhookBody caps the webhook payload read into memory.
const maxWebhookBody = 65536

type PaymentController struct {
	paymentService service.PaymentService
}

func NewPaymentController(paymentService service.PaymentService) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
	}
}

type CompletePaymentRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
}

// DemoScreen describes the simulated payment page
// GET /api/v1/payments/demo?orderId=...&total=...
func (ctrl *PaymentController) DemoScreen(c *gin.Context) {
	screen := ctrl.paymentService.DemoScreen(c.Query("orderId"), c.Query("total"))
	c.JSON(http.StatusOK, screen)
}

// CompleteDemoPayment simulates the processing delay and reports success
// POST /api/v1/payments/demo/:orderId/pay
func (ctrl *PaymentController) CompleteDemoPayment(c *gin.Context) {
	result, err := ctrl.paymentService.CompleteDemoPayment(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		respondError(c, err, "complete demo payment")
		return
	}
	c.JSON(http.StatusOK, result)
}

// CreateSession opens a hosted Stripe Checkout session
// POST /api/v1/payments/create
func (ctrl *PaymentController) CreateSession(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req service.CreateSessionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create session request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return
	}

	identityID := ""
	if sess, ok := middleware.GetSession(c); ok {
		identityID = sess.IdentityID()
	}

	result, err := ctrl.paymentService.CreateCheckoutSession(c.Request.Context(), identityID, req)
	if err != nil {
		respondError(c, err, "create checkout session")
		return
	}

	log.Info("Checkout session created", map[string]interface{}{
		"session_id": result.SessionID,
	})
	c.JSON(http.StatusOK, result)
}

// CompletePayment reconciles a returned Stripe session
// POST /api/v1/payments/complete
func (ctrl *PaymentController) CompletePayment(c *gin.Context) {
	var req CompletePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithValidationError(c, map[string]string{"sessionId": "is required"})
		return
	}

	result, err := ctrl.paymentService.CompletePayment(c.Request.Context(), req.SessionID)
	if err != nil {
		respondError(c, err, "complete payment")
		return
	}
	c.JSON(http.StatusOK, result)
}

// Webhook receives Stripe events
// POST /api/v1/payments/stripe/webhook
func (ctrl *PaymentController) Webhook(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		log.Warn("Failed to read webhook body", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.PaymentWebhook, "Unreadable webhook body")
		return
	}

	if err := ctrl.paymentService.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature")); err != nil {
		respondError(c, err, "payment webhook")
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
