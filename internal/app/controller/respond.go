package controller

import (
	"errors"
	"net/http"

	"github.com/clozet/clozet-backend/internal/app/service"
	"github.com/clozet/clozet-backend/internal/app/session"
	apperrors "github.com/clozet/clozet-backend/internal/errors"
	"github.com/clozet/clozet-backend/internal/middleware"
	"github.com/clozet/clozet-backend/pkg/payment/stripecheckout"
	"github.com/gin-gonic/gin"
)

// currentSession returns the session set by the auth middleware, answering 401 when absent.
func currentSession(c *gin.Context) (*session.Session, bool) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return nil, false
	}
	return sess, true
}

// respondError maps a service error onto the shared error body.
// op names the failed operation for the log line.
func respondError(c *gin.Context, err error, op string) {
	log := middleware.GetLoggerFromContext(c)

	var verr *service.ValidationError
	if errors.As(err, &verr) {
		apperrors.RespondWithValidationError(c, verr.Fields)
		return
	}
	var cooldown *service.CooldownError
	if errors.As(err, &cooldown) {
		apperrors.TooManyRequests(c, apperrors.AuthResendCooldown, "Please wait before requesting another code", cooldown.Seconds())
		return
	}

	switch {
	case errors.Is(err, service.ErrInvalidCode):
		apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthCodeInvalid, "Invalid or expired code")
	case errors.Is(err, service.ErrFlowNotFound):
		apperrors.NotFound(c, apperrors.AuthFlowNotFound, "This sign-in attempt has expired. Please start again")
	case errors.Is(err, service.ErrInvalidCheckoutStep):
		apperrors.Conflict(c, apperrors.CheckoutInvalidStep, "That checkout step is not available right now")
	case errors.Is(err, service.ErrInvalidTransition):
		apperrors.Conflict(c, apperrors.AuthInvalidStep, "That action is not available at this step")
	case errors.Is(err, service.ErrSessionExpired):
		apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenExpired, "Your session has expired. Please sign in again")
	case errors.Is(err, service.ErrSessionRevoked):
		apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenRevoked, "You have been signed out")
	case errors.Is(err, service.ErrUnauthorizedAccess):
		apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenInvalid, "Invalid session token")
	case errors.Is(err, service.ErrAddressNotFound):
		apperrors.NotFound(c, apperrors.AddressNotFound, "Address not found")
	case errors.Is(err, service.ErrCheckoutNotFound):
		apperrors.NotFound(c, apperrors.CheckoutNotFound, "Checkout not found. Please start again")
	case errors.Is(err, service.ErrStepPrecondition):
		apperrors.BadRequest(c, apperrors.CheckoutStepIncomplete, "Please complete this step first")
	case errors.Is(err, service.ErrInvalidDeliveryType):
		apperrors.BadRequest(c, apperrors.CheckoutInvalidDelivery, "Please choose a delivery option")
	case errors.Is(err, service.ErrOrderNotFound):
		apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
	case errors.Is(err, service.ErrCartLineNotFound):
		apperrors.NotFound(c, apperrors.CartLineNotFound, "Cart item not found")
	case errors.Is(err, service.ErrProductNotFound):
		apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
	case errors.Is(err, service.ErrStoreNotFound):
		apperrors.NotFound(c, apperrors.StoreNotFound, "Store not found")
	case errors.Is(err, service.ErrDemoUnsupported):
		apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzDemoUnsupported, "Not available for demo accounts")
	case errors.Is(err, service.ErrInvalidFileType):
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Only JPEG, PNG and WEBP images are allowed")
	case errors.Is(err, stripecheckout.ErrInvalidSignature):
		apperrors.BadRequest(c, apperrors.PaymentWebhook, "Invalid webhook signature")
	case errors.Is(err, service.ErrPaymentUnavailable):
		apperrors.RespondWithError(c, http.StatusServiceUnavailable, apperrors.PaymentFailed, "Card payments are not available right now")
	case errors.Is(err, service.ErrPaymentFailed):
		log.Error("Payment failed", err, map[string]interface{}{"op": op})
		apperrors.BadGateway(c, apperrors.PaymentFailed, "Payment failed. Please try again")
	case errors.Is(err, service.ErrNetwork):
		log.Error("Backend unavailable", err, map[string]interface{}{"op": op})
		apperrors.RespondWithError(c, http.StatusServiceUnavailable, apperrors.NetworkError, "A backing service is unreachable. Please try again shortly")
	default:
		log.Error("Request failed", err, map[string]interface{}{"op": op})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, op)
	}
}
