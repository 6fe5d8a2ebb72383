package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/clozet/clozet-backend/config"
	"github.com/clozet/clozet-backend/internal/app/demostore"
	"github.com/clozet/clozet-backend/internal/app/model"
	"github.com/clozet/clozet-backend/internal/app/repository"
	"github.com/clozet/clozet-backend/internal/app/session"
	"github.com/clozet/clozet-backend/internal/app/store"
	"github.com/clozet/clozet-backend/internal/db"
	appredis "github.com/clozet/clozet-backend/pkg/redis"
	"github.com/clozet/clozet-backend/pkg/util"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret"

// captureMailer records the last code sent to each address.
type captureMailer struct {
	mu    sync.Mutex
	codes map[string]string
	sent  int
}

func newCaptureMailer() *captureMailer {
	return &captureMailer{codes: make(map[string]string)}
}

func (m *captureMailer) SendLoginCode(_ context.Context, toEmail, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[toEmail] = code
	m.sent++
	return nil
}

func (m *captureMailer) lastCode(email string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.codes[email]
}

func (m *captureMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent
}

type testEnv struct {
	db         *gorm.DB
	mr         *miniredis.Miniredis
	client     *redis.Client
	demo       *demostore.Store
	selector   *store.Selector
	states     repository.StateRepository
	identities repository.IdentityRepository
	orders     repository.OrderRepository
	stores     repository.StoreRepository
	products   repository.ProductRepository
	mailer     *captureMailer
	blacklist  *appredis.TokenBlacklist
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	require.NoError(t, db.SeedCatalog(testDB, testCheckoutConfig().StoreID))

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	demo := demostore.New(client)
	return &testEnv{
		db:         testDB,
		mr:         mr,
		client:     client,
		demo:       demo,
		selector:   store.NewSelector(repository.NewStores(testDB), demo.Stores()),
		states:     repository.NewStateRepository(client),
		identities: repository.NewIdentityRepository(testDB),
		orders:     repository.NewOrderRepository(testDB),
		stores:     repository.NewStoreRepository(testDB),
		products:   repository.NewProductRepository(testDB),
		mailer:     newCaptureMailer(),
		blacklist:  appredis.NewTokenBlacklist(client),
	}
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:             testJWTSecret,
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: time.Hour,
	}
}

func testOTPConfig() config.OTPConfig {
	return config.OTPConfig{
		ResendCooldown: 30 * time.Second,
		CodeTTL:        5 * time.Minute,
		FlowTTL:        15 * time.Minute,
		DemoCode:       "123456",
		DemoEmail:      "demo@clozet.com",
	}
}

func testCheckoutConfig() config.CheckoutConfig {
	return config.CheckoutConfig{
		DraftTTL:         30 * time.Minute,
		PaymentMode:      config.PaymentModeDemo,
		DemoPaymentDelay: 10 * time.Millisecond,
		StoreID:          "clozet-vellore",
		AppOrigin:        "http://localhost:5173",
	}
}

func (e *testEnv) authService() *authService {
	provider := NewEmailCodeProvider(e.client, e.mailer, e.identities, testOTPConfig().CodeTTL)
	return NewAuthService(
		e.states, e.identities, e.demo, e.selector, provider, e.blacklist,
		testJWTConfig(), testOTPConfig(),
	).(*authService)
}

// demoSession resolves a session for a demo email identity without going through login.
func (e *testEnv) demoSession(t *testing.T, email string) *session.Session {
	t.Helper()
	identity := &model.Identity{
		ID:    demoIdentityID(model.ChannelEmail, email),
		Email: &email,
		Demo:  true,
	}
	require.NoError(t, e.demo.SaveIdentity(context.Background(), identity))
	return session.New(identity, e.selector.For(identity), nil)
}

// remoteSession creates a real identity row and binds it to the gorm stores.
func (e *testEnv) remoteSession(t *testing.T, email string) *session.Session {
	t.Helper()
	identity, _, err := e.identities.FindOrCreateByEmail(context.Background(), email)
	require.NoError(t, err)
	return session.New(identity, e.selector.For(identity), nil)
}

func tokenClaims(t *testing.T, token string) *util.Claims {
	t.Helper()
	claims, err := util.ValidateToken(token, testJWTSecret)
	require.NoError(t, err)
	return claims
}

func vellore(label string) model.AddressFields {
	return model.AddressFields{
		Label:        label,
		FullName:     "Asha Raman",
		Phone:        "9876543210",
		AddressLine1: "12 Katpadi Road",
		City:         "Vellore",
		State:        "Tamil Nadu",
		PostalCode:   "632014",
	}
}
