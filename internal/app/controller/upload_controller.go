package controller

import (
	"net/http"

	apperrors "github.com/clozet/clozet-backend/internal/errors"
	"github.com/clozet/clozet-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type AvatarUploadRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

// AvatarUploadURL presigns an avatar upload to S3
// POST /api/v1/profile/avatar/upload-url
func (ctrl *ProfileController) AvatarUploadURL(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sess, ok := currentSession(c)
	if !ok {
		return
	}

	var req AvatarUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid presigned URL request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "filename and content_type are required")
		return
	}

	upload, err := ctrl.profileService.AvatarUploadURL(c.Request.Context(), sess, req.Filename, req.ContentType)
	if err != nil {
		respondError(c, err, "presign avatar upload")
		return
	}

	log.Info("Presigned URL generated successfully", map[string]interface{}{
		"identity_id": sess.IdentityID(),
		"key":         upload.Key,
	})
	c.JSON(http.StatusOK, upload)
}
