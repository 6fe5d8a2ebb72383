package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/clozet/clozet-backend/internal/app/model"
	"github.com/clozet/clozet-backend/internal/app/repository"
	"github.com/clozet/clozet-backend/internal/app/session"
	"github.com/clozet/clozet-backend/internal/app/store"
	"github.com/clozet/clozet-backend/internal/storage"
	"github.com/clozet/clozet-backend/pkg/logger"
)

// AvatarUploader presigns direct-to-bucket uploads.
type AvatarUploader interface {
	PresignUpload(ctx context.Context, folder, filename, contentType string) (*storage.PresignedUpload, error)
}

type OnboardingInput struct {
	Name             string                  `json:"name" validate:"required"`
	Phone            string                  `json:"phone" validate:"required"`
	Gender           string                  `json:"gender"`
	DateOfBirth      *string                 `json:"date_of_birth"`
	AvatarURL        string                  `json:"avatar_url"`
	StylePreferences *model.StylePreferences `json:"style_preferences"`
}

// ProfileUpdate changes only the fields that are set.
type ProfileUpdate struct {
	Name             *string                 `json:"name"`
	Phone            *string                 `json:"phone"`
	Gender           *string                 `json:"gender"`
	DateOfBirth      *string                 `json:"date_of_birth"`
	AvatarURL        *string                 `json:"avatar_url"`
	StylePreferences *model.StylePreferences `json:"style_preferences"`
}

// ProfileStats are the counters shown on the profile page.
type ProfileStats struct {
	Orders int64 `json:"orders"`
}

type ProfileService interface {
	Get(ctx context.Context, sess *session.Session) (*model.Profile, error)
	Stats(ctx context.Context, sess *session.Session) (*ProfileStats, error)
	CompleteOnboarding(ctx context.Context, sess *session.Session, input OnboardingInput) (*model.Profile, error)
	Update(ctx context.Context, sess *session.Session, update ProfileUpdate) (*model.Profile, error)
	AvatarUploadURL(ctx context.Context, sess *session.Session, filename, contentType string) (*storage.PresignedUpload, error)
}

type profileService struct {
	uploader AvatarUploader
	orders   repository.OrderRepository
}

func NewProfileService(uploader AvatarUploader, orders repository.OrderRepository) ProfileService {
	return &profileService{uploader: uploader, orders: orders}
}

// Get returns the stored profile, or an empty one that still needs onboarding.
func (s *profileService) Get(ctx context.Context, sess *session.Session) (*model.Profile, error) {
	profile, err := retryRead(ctx, "profile.get", func() (*model.Profile, error) {
		return sess.Stores.Profiles.GetProfile(ctx, sess.IdentityID())
	})
	if errors.Is(err, store.ErrNotFound) {
		return &model.Profile{
			UserID:           sess.IdentityID(),
			StylePreferences: model.StylePreferences{Categories: []string{}},
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load profile: %v", ErrNetwork, err)
	}
	return profile, nil
}

// Stats counts the identity's placed orders. Demo identities never own orders.
func (s *profileService) Stats(ctx context.Context, sess *session.Session) (*ProfileStats, error) {
	orders, err := retryRead(ctx, "profile.stats", func() (int64, error) {
		return s.orders.CountByUserID(ctx, sess.IdentityID())
	})
	if err != nil {
		return nil, fmt.Errorf("%w: count orders: %v", ErrNetwork, err)
	}
	return &ProfileStats{Orders: orders}, nil
}

func (s *profileService) CompleteOnboarding(ctx context.Context, sess *session.Session, input OnboardingInput) (*model.Profile, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Phone = strings.TrimSpace(input.Phone)
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	profile, err := s.Get(ctx, sess)
	if err != nil {
		return nil, err
	}

	profile.Name = input.Name
	profile.Phone = input.Phone
	profile.Gender = input.Gender
	profile.DateOfBirth = input.DateOfBirth
	if input.AvatarURL != "" {
		profile.AvatarURL = input.AvatarURL
	}
	if input.StylePreferences != nil {
		profile.StylePreferences = *input.StylePreferences
	}
	profile.OnboardingCompleted = true

	if err := sess.Stores.Profiles.SaveProfile(ctx, profile); err != nil {
		logger.Error("Failed to save onboarding", err, map[string]interface{}{
			"identity_id": sess.IdentityID(),
		})
		return nil, fmt.Errorf("%w: save profile: %v", ErrNetwork, err)
	}

	logger.Info("Onboarding completed", map[string]interface{}{
		"identity_id": sess.IdentityID(),
		"demo":        sess.IsDemo(),
	})
	return profile, nil
}

func (s *profileService) Update(ctx context.Context, sess *session.Session, update ProfileUpdate) (*model.Profile, error) {
	profile, err := s.Get(ctx, sess)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, newValidationError("name", "is required")
		}
		profile.Name = name
	}
	if update.Phone != nil {
		phone := strings.TrimSpace(*update.Phone)
		if phone == "" {
			return nil, newValidationError("phone", "is required")
		}
		profile.Phone = phone
	}
	if update.Gender != nil {
		profile.Gender = *update.Gender
	}
	if update.DateOfBirth != nil {
		profile.DateOfBirth = update.DateOfBirth
	}
	if update.AvatarURL != nil {
		profile.AvatarURL = *update.AvatarURL
	}
	if update.StylePreferences != nil {
		profile.StylePreferences = *update.StylePreferences
	}

	if err := sess.Stores.Profiles.SaveProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("%w: save profile: %v", ErrNetwork, err)
	}
	return profile, nil
}

// AvatarUploadURL presigns an avatar upload. Demo onboarding has no upload step.
func (s *profileService) AvatarUploadURL(ctx context.Context, sess *session.Session, filename, contentType string) (*storage.PresignedUpload, error) {
	if sess.IsDemo() {
		return nil, ErrDemoUnsupported
	}
	if strings.TrimSpace(filename) == "" {
		return nil, newValidationError("filename", "is required")
	}
	if err := storage.ValidateContentType(contentType, storage.ImageContentTypes); err != nil {
		return nil, ErrInvalidFileType
	}

	upload, err := s.uploader.PresignUpload(ctx, "avatars/"+sess.IdentityID(), filename, contentType)
	if err != nil {
		logger.Error("Failed to presign avatar upload", err, map[string]interface{}{
			"identity_id": sess.IdentityID(),
		})
		return nil, fmt.Errorf("%w: presign upload: %v", ErrNetwork, err)
	}
	return upload, nil
}
