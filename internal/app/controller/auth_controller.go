package controller

import (
	"net/http"

	"github.com/clozet/clozet-backend/internal/app/model"
	"github.com/clozet/clozet-backend/internal/app/service"
	apperrors "github.com/clozet/clozet-backend/internal/errors"
	"github.com/clozet/clozet-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

type ChooseMethodRequest struct {
	Channel model.Channel `json:"channel" binding:"required"`
}

type SubmitIdentifierRequest struct {
	Identifier string `json:"identifier"`
}

type VerifyCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// StartLogin opens a new login flow
// POST /api/v1/auth/login
func (ctrl *AuthController) StartLogin(c *gin.Context) {
	view, err := ctrl.authService.StartLogin(c.Request.Context())
	if err != nil {
		respondError(c, err, "start login")
		return
	}
	c.JSON(http.StatusCreated, view)
}

// GetLogin returns the flow state
// GET /api/v1/auth/login/:flowId
func (ctrl *AuthController) GetLogin(c *gin.Context) {
	view, err := ctrl.authService.GetLogin(c.Request.Context(), c.Param("flowId"))
	if err != nil {
		respondError(c, err, "get login")
		return
	}
	c.JSON(http.StatusOK, view)
}

// ChooseMethod picks phone or email
// POST /api/v1/auth/login/:flowId/method
func (ctrl *AuthController) ChooseMethod(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ChooseMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid choose method request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Please choose phone or email")
		return
	}

	view, err := ctrl.authService.ChooseMethod(c.Request.Context(), c.Param("flowId"), req.Channel)
	if err != nil {
		respondError(c, err, "choose login method")
		return
	}
	c.JSON(http.StatusOK, view)
}

// SubmitIdentifier takes the phone or email and moves the flow to otp
// POST /api/v1/auth/login/:flowId/identifier
func (ctrl *AuthController) SubmitIdentifier(c *gin.Context) {
	var req SubmitIdentifierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return
	}

	view, err := ctrl.authService.SubmitIdentifier(c.Request.Context(), c.Param("flowId"), req.Identifier)
	if err != nil {
		respondError(c, err, "submit identifier")
		return
	}
	c.JSON(http.StatusOK, view)
}

// ResendCode dispatches a fresh code once the cooldown has passed
// POST /api/v1/auth/login/:flowId/resend
func (ctrl *AuthController) ResendCode(c *gin.Context) {
	view, err := ctrl.authService.ResendCode(c.Request.Context(), c.Param("flowId"))
	if err != nil {
		respondError(c, err, "resend code")
		return
	}
	c.JSON(http.StatusOK, view)
}

// VerifyCode completes the login
// POST /api/v1/auth/login/:flowId/verify
func (ctrl *AuthController) VerifyCode(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithValidationError(c, map[string]string{"code": "is required"})
		return
	}

	result, err := ctrl.authService.VerifyCode(c.Request.Context(), c.Param("flowId"), req.Code)
	if err != nil {
		respondError(c, err, "verify code")
		return
	}

	log.Info("User signed in", map[string]interface{}{
		"identity_id": result.Identity.ID,
		"demo":        result.Identity.IsDemo(),
	})
	c.JSON(http.StatusOK, result)
}

// Back undoes one login step
// POST /api/v1/auth/login/:flowId/back
func (ctrl *AuthController) Back(c *gin.Context) {
	view, err := ctrl.authService.Back(c.Request.Context(), c.Param("flowId"))
	if err != nil {
		respondError(c, err, "login back")
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetSession describes the signed-in identity
// GET /api/v1/auth/session
func (ctrl *AuthController) GetSession(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	view, err := ctrl.authService.Describe(c.Request.Context(), sess)
	if err != nil {
		respondError(c, err, "describe session")
		return
	}
	c.JSON(http.StatusOK, view)
}

// RefreshToken rotates the token pair
// POST /api/v1/auth/refresh
func (ctrl *AuthController) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "refresh_token is required")
		return
	}

	tokens, err := ctrl.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err, "refresh token")
		return
	}
	c.JSON(http.StatusOK, gin.H{"tokens": tokens})
}

// Logout revokes the tokens and ends a demo session
// POST /api/v1/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	var req LogoutRequest
	// the body is optional
	_ = c.ShouldBindJSON(&req)

	if err := ctrl.authService.SignOut(c.Request.Context(), sess, req.RefreshToken); err != nil {
		respondError(c, err, "sign out")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
}
