package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/clozet/clozet-backend/internal/app/model"
	"github.com/clozet/clozet-backend/internal/app/repository"
	"github.com/clozet/clozet-backend/pkg/logger"
	"github.com/clozet/clozet-backend/pkg/util"
	"github.com/redis/go-redis/v9"
)

// IdentityProvider issues and checks one-time codes for real identities.
type IdentityProvider interface {
	RequestOneTimeCode(ctx context.Context, identifier string, channel model.Channel) error
	VerifyOneTimeCode(ctx context.Context, identifier, code string) (*model.Identity, error)
}

// emailCodeProvider keeps a bcrypt hash of the latest code per address in redis.
type emailCodeProvider struct {
	client     *redis.Client
	mailer     util.Mailer
	identities repository.IdentityRepository
	codeTTL    time.Duration
}

func NewEmailCodeProvider(
	client *redis.Client,
	mailer util.Mailer,
	identities repository.IdentityRepository,
	codeTTL time.Duration,
) IdentityProvider {
	return &emailCodeProvider{
		client:     client,
		mailer:     mailer,
		identities: identities,
		codeTTL:    codeTTL,
	}
}

func otpKey(email string) string {
	return "otp:" + strings.ToLower(email)
}

func (p *emailCodeProvider) RequestOneTimeCode(ctx context.Context, identifier string, channel model.Channel) error {
	if channel != model.ChannelEmail {
		return fmt.Errorf("one-time codes are only dispatched by email, got %s", channel)
	}

	code, err := util.GenerateVerificationCode()
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}
	hashed, err := util.HashVerificationCode(code)
	if err != nil {
		return fmt.Errorf("hash code: %w", err)
	}

	if err := p.client.Set(ctx, otpKey(identifier), hashed, p.codeTTL).Err(); err != nil {
		logger.Error("Failed to store one-time code", err)
		return fmt.Errorf("%w: store code: %v", ErrNetwork, err)
	}
	if err := p.mailer.SendLoginCode(ctx, identifier, code); err != nil {
		logger.Error("Failed to send one-time code", err)
		return fmt.Errorf("%w: send code: %v", ErrNetwork, err)
	}

	logger.Info("One-time code dispatched", map[string]interface{}{
		"channel": channel,
	})
	return nil
}

func (p *emailCodeProvider) VerifyOneTimeCode(ctx context.Context, identifier, code string) (*model.Identity, error) {
	key := otpKey(identifier)

	hashed, err := p.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrInvalidCode
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load code: %v", ErrNetwork, err)
	}
	if !util.VerifyVerificationCode(hashed, code) {
		return nil, ErrInvalidCode
	}

	// single use
	if err := p.client.Del(ctx, key).Err(); err != nil {
		logger.Warn("Failed to consume one-time code", map[string]interface{}{
			"error": err.Error(),
		})
	}

	identity, created, err := p.identities.FindOrCreateByEmail(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("resolve identity: %w", err)
	}
	if created {
		logger.Info("First login for identity", map[string]interface{}{
			"identity_id": identity.ID,
		})
	}
	return identity, nil
}
