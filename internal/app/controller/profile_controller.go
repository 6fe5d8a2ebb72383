package controller

import (
	"net/http"

	"github.com/clozet/clozet-backend/internal/app/service"
	apperrors "github.com/clozet/clozet-backend/internal/errors"
	"github.com/gin-gonic/gin"
)

type ProfileController struct {
	profileService service.ProfileService
}

func NewProfileController(profileService service.ProfileService) *ProfileController {
	return &ProfileController{
		profileService: profileService,
	}
}

// GetProfile returns the profile of the signed-in identity
// GET /api/v1/profile
func (ctrl *ProfileController) GetProfile(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	profile, err := ctrl.profileService.Get(c.Request.Context(), sess)
	if err != nil {
		respondError(c, err, "load profile")
		return
	}
	stats, err := ctrl.profileService.Stats(c.Request.Context(), sess)
	if err != nil {
		respondError(c, err, "load profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"profile":  profile,
		"redirect": profile.Redirect(),
		"stats":    stats,
	})
}

// CompleteOnboarding saves the onboarding answers
// PUT /api/v1/profile/onboarding
func (ctrl *ProfileController) CompleteOnboarding(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	var req service.OnboardingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return
	}

	profile, err := ctrl.profileService.CompleteOnboarding(c.Request.Context(), sess, req)
	if err != nil {
		respondError(c, err, "complete onboarding")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"profile":  profile,
		"redirect": profile.Redirect(),
	})
}

// UpdateProfile changes the fields that are present
// PUT /api/v1/profile
func (ctrl *ProfileController) UpdateProfile(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	var req service.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return
	}

	profile, err := ctrl.profileService.Update(c.Request.Context(), sess, req)
	if err != nil {
		respondError(c, err, "update profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}
