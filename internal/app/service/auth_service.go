package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/clozet/clozet-backend/config"
	"github.com/clozet/clozet-backend/internal/app/model"
	"github.com/clozet/clozet-backend/internal/app/repository"
	"github.com/clozet/clozet-backend/internal/app/session"
	"github.com/clozet/clozet-backend/internal/app/store"
	"github.com/clozet/clozet-backend/pkg/logger"
	"github.com/clozet/clozet-backend/pkg/util"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DemoIdentityStore persists demo identities so a reload resolves them until sign-out.
type DemoIdentityStore interface {
	SaveIdentity(ctx context.Context, identity *model.Identity) error
	LoadIdentity(ctx context.Context, id string) (*model.Identity, error)
	DeleteIdentity(ctx context.Context, id string) error
}

// TokenRevoker is the access/refresh token blacklist.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, expiry time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// LoginView is a login flow as the client sees it.
type LoginView struct {
	Flow              *model.LoginFlow `json:"flow"`
	ResendAvailableIn int              `json:"resend_available_in"`
}

type LoginResult struct {
	Flow     *model.LoginFlow `json:"flow"`
	Identity *model.Identity  `json:"identity"`
	Profile  *model.Profile   `json:"profile,omitempty"`
	Tokens   *util.TokenPair  `json:"tokens"`
	Redirect string           `json:"redirect"`
}

type SessionView struct {
	Identity *model.Identity `json:"identity"`
	Profile  *model.Profile  `json:"profile,omitempty"`
	Redirect string          `json:"redirect"`
}

type AuthService interface {
	StartLogin(ctx context.Context) (*LoginView, error)
	GetLogin(ctx context.Context, flowID string) (*LoginView, error)
	ChooseMethod(ctx context.Context, flowID string, channel model.Channel) (*LoginView, error)
	SubmitIdentifier(ctx context.Context, flowID, identifier string) (*LoginView, error)
	ResendCode(ctx context.Context, flowID string) (*LoginView, error)
	VerifyCode(ctx context.Context, flowID, code string) (*LoginResult, error)
	Back(ctx context.Context, flowID string) (*LoginView, error)

	ResolveSession(ctx context.Context, accessToken string) (*session.Session, error)
	Describe(ctx context.Context, sess *session.Session) (*SessionView, error)
	Refresh(ctx context.Context, refreshToken string) (*util.TokenPair, error)
	SignOut(ctx context.Context, sess *session.Session, refreshToken string) error
}

type authService struct {
	states     repository.StateRepository
	identities repository.IdentityRepository
	demo       DemoIdentityStore
	selector   *store.Selector
	provider   IdentityProvider
	revoker    TokenRevoker
	jwt        config.JWTConfig
	otp        config.OTPConfig
	now        func() time.Time
}

func NewAuthService(
	states repository.StateRepository,
	identities repository.IdentityRepository,
	demo DemoIdentityStore,
	selector *store.Selector,
	provider IdentityProvider,
	revoker TokenRevoker,
	jwtCfg config.JWTConfig,
	otpCfg config.OTPConfig,
) AuthService {
	return &authService{
		states:     states,
		identities: identities,
		demo:       demo,
		selector:   selector,
		provider:   provider,
		revoker:    revoker,
		jwt:        jwtCfg,
		otp:        otpCfg,
		now:        time.Now,
	}
}

func (s *authService) view(flow *model.LoginFlow) *LoginView {
	return &LoginView{Flow: flow, ResendAvailableIn: resendIn(flow, s.now())}
}

func (s *authService) loadFlow(ctx context.Context, flowID string) (*model.LoginFlow, error) {
	flow, err := s.states.FindLoginFlow(ctx, flowID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrFlowNotFound
		}
		return nil, fmt.Errorf("%w: load login flow: %v", ErrNetwork, err)
	}
	return flow, nil
}

func (s *authService) saveFlow(ctx context.Context, flow *model.LoginFlow) error {
	flow.UpdatedAt = s.now()
	if err := s.states.SaveLoginFlow(ctx, flow, s.otp.FlowTTL); err != nil {
		logger.Error("Failed to save login flow", err, map[string]interface{}{
			"flow_id": flow.ID,
		})
		return fmt.Errorf("%w: save login flow: %v", ErrNetwork, err)
	}
	return nil
}

func (s *authService) StartLogin(ctx context.Context) (*LoginView, error) {
	now := s.now()
	flow := &model.LoginFlow{
		ID:        uuid.NewString(),
		Step:      model.LoginStepMethod,
		CreatedAt: now,
	}
	if err := s.saveFlow(ctx, flow); err != nil {
		return nil, err
	}
	logger.Debug("Login flow started", map[string]interface{}{
		"flow_id": flow.ID,
	})
	return s.view(flow), nil
}

func (s *authService) GetLogin(ctx context.Context, flowID string) (*LoginView, error) {
	flow, err := s.loadFlow(ctx, flowID)
	if err != nil {
		return nil, err
	}
	return s.view(flow), nil
}

func (s *authService) ChooseMethod(ctx context.Context, flowID string, channel model.Channel) (*LoginView, error) {
	flow, err := s.loadFlow(ctx, flowID)
	if err != nil {
		return nil, err
	}
	if err := applyChooseMethod(flow, channel); err != nil {
		return nil, err
	}
	if err := s.saveFlow(ctx, flow); err != nil {
		return nil, err
	}
	return s.view(flow), nil
}

func (s *authService) SubmitIdentifier(ctx context.Context, flowID, identifier string) (*LoginView, error) {
	flow, err := s.loadFlow(ctx, flowID)
	if err != nil {
		return nil, err
	}
	if flow.Step != model.LoginStepPhone && flow.Step != model.LoginStepEmail {
		return nil, ErrInvalidTransition
	}

	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, newValidationError("identifier", "is required")
	}
	if flow.Channel == model.ChannelEmail {
		identifier = strings.ToLower(identifier)
	}

	flow.Identifier = identifier
	flow.Demo = isDemoIdentifier(identifier, s.otp.DemoEmail)
	flow.ResendAvailableAt = time.Time{}

	if !flow.Demo {
		if err := s.dispatch(ctx, flow); err != nil {
			return nil, err
		}
	}

	flow.Step = model.LoginStepOTP
	if err := s.saveFlow(ctx, flow); err != nil {
		return nil, err
	}

	logger.Info("Login code requested", map[string]interface{}{
		"flow_id": flow.ID,
		"channel": flow.Channel,
		"demo":    flow.Demo,
	})
	return s.view(flow), nil
}

// dispatch sends a code for a non-demo flow and starts the resend cooldown.
// Phones have no SMS gateway; they use the fixed demo code and nothing is sent.
func (s *authService) dispatch(ctx context.Context, flow *model.LoginFlow) error {
	if flow.Channel == model.ChannelEmail {
		if err := s.provider.RequestOneTimeCode(ctx, flow.Identifier, flow.Channel); err != nil {
			return err
		}
	}
	flow.ResendAvailableAt = s.now().Add(s.otp.ResendCooldown)
	return nil
}

func (s *authService) ResendCode(ctx context.Context, flowID string) (*LoginView, error) {
	flow, err := s.loadFlow(ctx, flowID)
	if err != nil {
		return nil, err
	}
	if flow.Step != model.LoginStepOTP {
		return nil, ErrInvalidTransition
	}
	if flow.Demo {
		return s.view(flow), nil
	}
	if now := s.now(); flow.ResendAvailableAt.After(now) {
		return nil, &CooldownError{Remaining: flow.ResendAvailableAt.Sub(now)}
	}

	if err := s.dispatch(ctx, flow); err != nil {
		return nil, err
	}
	if err := s.saveFlow(ctx, flow); err != nil {
		return nil, err
	}
	return s.view(flow), nil
}

func (s *authService) Back(ctx context.Context, flowID string) (*LoginView, error) {
	flow, err := s.loadFlow(ctx, flowID)
	if err != nil {
		return nil, err
	}
	if err := applyBack(flow); err != nil {
		return nil, err
	}
	if err := s.saveFlow(ctx, flow); err != nil {
		return nil, err
	}
	return s.view(flow), nil
}

func (s *authService) VerifyCode(ctx context.Context, flowID, code string) (*LoginResult, error) {
	flow, err := s.loadFlow(ctx, flowID)
	if err != nil {
		return nil, err
	}
	if flow.Step != model.LoginStepOTP {
		return nil, ErrInvalidTransition
	}

	identity, err := s.verify(ctx, flow, code)
	if err != nil {
		if errors.Is(err, ErrInvalidCode) {
			logger.Warn("Login code rejected", map[string]interface{}{
				"flow_id": flow.ID,
				"channel": flow.Channel,
			})
		}
		return nil, err
	}

	stores := s.selector.For(identity)
	if identity.IsDemo() {
		if err := s.demo.SaveIdentity(ctx, identity); err != nil {
			logger.Error("Failed to persist demo identity", err)
			return nil, fmt.Errorf("%w: persist demo identity: %v", ErrNetwork, err)
		}
	}

	profile, err := s.loadOrSeedProfile(ctx, identity, stores)
	if err != nil {
		return nil, err
	}

	tokens, err := util.GenerateTokenPair(util.TokenSubject{
		IdentityID: identity.ID,
		Identifier: identity.Identifier(),
		Channel:    string(flow.Channel),
		Demo:       identity.IsDemo(),
	}, s.jwt.Secret, s.jwt.AccessTokenExpiry, s.jwt.RefreshTokenExpiry)
	if err != nil {
		logger.Error("Failed to generate tokens", err)
		return nil, err
	}

	flow.Step = model.LoginStepAuthenticated
	flow.IdentityID = identity.ID
	flow.Redirect = profile.Redirect()
	if err := s.saveFlow(ctx, flow); err != nil {
		return nil, err
	}

	logger.Info("Login succeeded", map[string]interface{}{
		"identity_id": identity.ID,
		"demo":        identity.IsDemo(),
		"redirect":    flow.Redirect,
	})

	return &LoginResult{
		Flow:     flow,
		Identity: identity,
		Profile:  profile,
		Tokens:   tokens,
		Redirect: flow.Redirect,
	}, nil
}

// verify applies the code policy for the flow's identifier and returns the identity it proves.
func (s *authService) verify(ctx context.Context, flow *model.LoginFlow, code string) (*model.Identity, error) {
	switch {
	case flow.Demo:
		if !util.HasOTPLength(code) {
			return nil, ErrInvalidCode
		}
		return s.demoIdentity(flow), nil
	case flow.Channel == model.ChannelPhone:
		if code != s.otp.DemoCode {
			return nil, ErrInvalidCode
		}
		return s.demoIdentity(flow), nil
	default:
		return s.provider.VerifyOneTimeCode(ctx, flow.Identifier, code)
	}
}

func (s *authService) demoIdentity(flow *model.LoginFlow) *model.Identity {
	identifier := flow.Identifier
	identity := &model.Identity{
		ID:        demoIdentityID(flow.Channel, identifier),
		CreatedAt: s.now(),
		Demo:      true,
	}
	if flow.Channel == model.ChannelPhone {
		identity.Phone = &identifier
	} else {
		identity.Email = &identifier
	}
	return identity
}

// loadOrSeedProfile returns the stored profile. A demo identity without one
// gets a fresh profile and starter cart; a real identity without one has none yet.
func (s *authService) loadOrSeedProfile(ctx context.Context, identity *model.Identity, stores store.Stores) (*model.Profile, error) {
	profile, err := stores.Profiles.GetProfile(ctx, identity.ID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: load profile: %v", ErrNetwork, err)
	}
	if !identity.IsDemo() {
		return nil, nil
	}

	profile = &model.Profile{
		UserID:           identity.ID,
		Name:             "Demo User",
		StylePreferences: model.StylePreferences{Categories: []string{}},
	}
	if identity.Phone != nil {
		profile.Name = "Demo Phone User"
		profile.Phone = *identity.Phone
	}
	if err := stores.Profiles.SaveProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("%w: create demo profile: %v", ErrNetwork, err)
	}

	for _, line := range demoCartLines() {
		line := line
		if err := stores.Carts.AddCartLine(ctx, identity.ID, &line); err != nil {
			logger.Warn("Failed to seed demo cart", map[string]interface{}{
				"identity_id": identity.ID,
				"error":       err.Error(),
			})
			break
		}
	}

	logger.Info("Demo profile created", map[string]interface{}{
		"identity_id": identity.ID,
	})
	return profile, nil
}

func demoCartLines() []model.CartLine {
	return []model.CartLine{
		{
			Title:     "Premium Cotton T-Shirt",
			Variant:   "Medium / Blue",
			Image:     "https://images.unsplash.com/photo-1521572163474-6864f9cf17ab?w=400",
			UnitPrice: decimal.NewFromInt(899),
			Quantity:  2,
		},
		{
			Title:     "Designer Jeans",
			Variant:   "32 / Blue",
			Image:     "https://images.unsplash.com/photo-1542272604-787c3835535d?w=400",
			UnitPrice: decimal.NewFromInt(2499),
			Quantity:  1,
		},
	}
}

func (s *authService) parseToken(ctx context.Context, token, tokenType string) (*util.Claims, error) {
	claims, err := util.ValidateToken(token, s.jwt.Secret)
	if err != nil {
		if errors.Is(err, util.ErrExpiredToken) {
			return nil, ErrSessionExpired
		}
		return nil, ErrUnauthorizedAccess
	}
	if claims.TokenType != tokenType {
		return nil, ErrUnauthorizedAccess
	}

	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: check revocation: %v", ErrNetwork, err)
	}
	if revoked {
		return nil, ErrSessionRevoked
	}
	return claims, nil
}

// lookupIdentity resolves the token subject. Demo identities come from the
// local durable store; a missing demoUser record means the demo signed out.
func (s *authService) lookupIdentity(ctx context.Context, claims *util.Claims) (*model.Identity, error) {
	var (
		identity *model.Identity
		err      error
	)
	if claims.Demo {
		identity, err = retryRead(ctx, "session.demo_identity", func() (*model.Identity, error) {
			return s.demo.LoadIdentity(ctx, claims.IdentityID)
		})
	} else {
		identity, err = retryRead(ctx, "session.identity", func() (*model.Identity, error) {
			return s.identities.FindByID(ctx, claims.IdentityID)
		})
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			if claims.Demo {
				return nil, ErrSessionRevoked
			}
			return nil, ErrUnauthorizedAccess
		}
		return nil, fmt.Errorf("%w: load identity: %v", ErrNetwork, err)
	}
	return identity, nil
}

func (s *authService) ResolveSession(ctx context.Context, accessToken string) (*session.Session, error) {
	claims, err := s.parseToken(ctx, accessToken, util.TokenTypeAccess)
	if err != nil {
		return nil, err
	}
	identity, err := s.lookupIdentity(ctx, claims)
	if err != nil {
		return nil, err
	}
	return session.New(identity, s.selector.For(identity), claims), nil
}

func (s *authService) Describe(ctx context.Context, sess *session.Session) (*SessionView, error) {
	profile, err := retryRead(ctx, "session.profile", func() (*model.Profile, error) {
		return sess.Stores.Profiles.GetProfile(ctx, sess.IdentityID())
	})
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: load profile: %v", ErrNetwork, err)
	}
	return &SessionView{
		Identity: sess.Identity,
		Profile:  profile,
		Redirect: profile.Redirect(),
	}, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*util.TokenPair, error) {
	claims, err := s.parseToken(ctx, refreshToken, util.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}
	if _, err := s.lookupIdentity(ctx, claims); err != nil {
		return nil, err
	}

	if err := s.revoker.Revoke(ctx, claims.ID, claims.Remaining(s.now())); err != nil {
		return nil, fmt.Errorf("%w: revoke refresh token: %v", ErrNetwork, err)
	}

	return util.GenerateTokenPair(util.TokenSubject{
		IdentityID: claims.IdentityID,
		Identifier: claims.Identifier,
		Channel:    claims.Channel,
		Demo:       claims.Demo,
	}, s.jwt.Secret, s.jwt.AccessTokenExpiry, s.jwt.RefreshTokenExpiry)
}

// SignOut revokes the session's tokens and forgets a demo identity. Demo
// profile, address and cart records stay under their namespaced keys.
func (s *authService) SignOut(ctx context.Context, sess *session.Session, refreshToken string) error {
	now := s.now()
	if sess.Claims != nil {
		if err := s.revoker.Revoke(ctx, sess.Claims.ID, sess.Claims.Remaining(now)); err != nil {
			return fmt.Errorf("%w: revoke access token: %v", ErrNetwork, err)
		}
	}
	if refreshToken != "" {
		if claims, err := util.ValidateToken(refreshToken, s.jwt.Secret); err == nil && claims.IdentityID == sess.IdentityID() {
			if err := s.revoker.Revoke(ctx, claims.ID, claims.Remaining(now)); err != nil {
				return fmt.Errorf("%w: revoke refresh token: %v", ErrNetwork, err)
			}
		}
	}

	if sess.IsDemo() {
		if err := s.demo.DeleteIdentity(ctx, sess.IdentityID()); err != nil {
			return fmt.Errorf("%w: delete demo identity: %v", ErrNetwork, err)
		}
	}

	logger.Info("Signed out", map[string]interface{}{
		"identity_id": sess.IdentityID(),
		"demo":        sess.IsDemo(),
	})
	return nil
}
