package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/clozet/clozet-backend/config"
	"github.com/clozet/clozet-backend/internal/app/demostore"
	"github.com/clozet/clozet-backend/internal/app/model"
	"github.com/clozet/clozet-backend/internal/app/repository"
	"github.com/clozet/clozet-backend/internal/app/service"
	"github.com/clozet/clozet-backend/internal/app/store"
	"github.com/clozet/clozet-backend/internal/db"
	apperrors "github.com/clozet/clozet-backend/internal/errors"
	"github.com/clozet/clozet-backend/internal/middleware"
	"github.com/clozet/clozet-backend/internal/storage"
	ws "github.com/clozet/clozet-backend/internal/websocket"
	appredis "github.com/clozet/clozet-backend/pkg/redis"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const demoEmail = "demo@clozet.com"

type captureMailer struct {
	mu    sync.Mutex
	codes map[string]string
}

func (m *captureMailer) SendLoginCode(_ context.Context, toEmail, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[toEmail] = code
	return nil
}

func (m *captureMailer) lastCode(email string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.codes[email]
}

type stubUploader struct{}

func (stubUploader) PresignUpload(_ context.Context, folder, filename, _ string) (*storage.PresignedUpload, error) {
	return &storage.PresignedUpload{
		UploadURL: "https://bucket.test/" + folder + "/" + filename + "?sig=1",
		FileURL:   "https://cdn.test/" + folder + "/" + filename,
		Key:       folder + "/" + filename,
		ExpiresAt: time.Now().Add(15 * time.Minute),
	}, nil
}

// testServer is the whole API over sqlite and miniredis, routed like production.
type testServer struct {
	router   *gin.Engine
	db       *gorm.DB
	orders   repository.OrderRepository
	mailer   *captureMailer
	tracking service.TrackingService
	hub      *ws.Hub
}

func newTestServer(t *testing.T, gateway service.CheckoutGateway) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	require.NoError(t, db.SeedCatalog(testDB, "clozet-vellore"))

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	jwtCfg := config.JWTConfig{Secret: "test-secret", AccessTokenExpiry: 15 * time.Minute, RefreshTokenExpiry: time.Hour}
	otpCfg := config.OTPConfig{
		ResendCooldown: 30 * time.Second,
		CodeTTL:        5 * time.Minute,
		FlowTTL:        15 * time.Minute,
		DemoCode:       "123456",
		DemoEmail:      demoEmail,
	}
	checkoutCfg := config.CheckoutConfig{
		DraftTTL:         30 * time.Minute,
		PaymentMode:      config.PaymentModeDemo,
		DemoPaymentDelay: time.Millisecond,
		StoreID:          "clozet-vellore",
		AppOrigin:        "http://localhost:5173",
	}

	demo := demostore.New(client)
	selector := store.NewSelector(repository.NewStores(testDB), demo.Stores())
	states := repository.NewStateRepository(client)
	identities := repository.NewIdentityRepository(testDB)
	orders := repository.NewOrderRepository(testDB)
	stores := repository.NewStoreRepository(testDB)
	mailer := &captureMailer{codes: make(map[string]string)}

	hub := ws.NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)

	authService := service.NewAuthService(
		states, identities, demo, selector,
		service.NewEmailCodeProvider(client, mailer, identities, otpCfg.CodeTTL),
		appredis.NewTokenBlacklist(client),
		jwtCfg, otpCfg,
	)
	addressService := service.NewAddressService()
	paymentService := service.NewPaymentService(orders, stores, gateway, checkoutCfg)
	orderService := service.NewOrderService(orders, paymentService)
	trackingService := service.NewTrackingService(config.MapConfig{CenterLat: 12.9165, CenterLng: 79.1325}, hub)

	authCtrl := NewAuthController(authService)
	profileCtrl := NewProfileController(service.NewProfileService(stubUploader{}, orders))
	addressCtrl := NewAddressController(addressService)
	cartCtrl := NewCartController(service.NewCartService())
	checkoutCtrl := NewCheckoutController(service.NewCheckoutService(states, addressService, paymentService, checkoutCfg.DraftTTL))
	paymentCtrl := NewPaymentController(paymentService)
	orderCtrl := NewOrderController(orderService, trackingService, hub, []string{"http://localhost:5173"})
	productService := service.NewProductService(repository.NewProductRepository(testDB))
	productCtrl := NewProductController(productService)
	storeCtrl := NewStoreController(service.NewStoreService(stores), productService)
	auth := middleware.NewAuthMiddleware(authService)

	router := gin.New()
	router.Use(middleware.LoggingMiddleware())
	v1 := router.Group("/api/v1")

	v1.POST("/auth/login", authCtrl.StartLogin)
	v1.GET("/auth/login/:flowId", authCtrl.GetLogin)
	v1.POST("/auth/login/:flowId/method", authCtrl.ChooseMethod)
	v1.POST("/auth/login/:flowId/identifier", authCtrl.SubmitIdentifier)
	v1.POST("/auth/login/:flowId/resend", authCtrl.ResendCode)
	v1.POST("/auth/login/:flowId/verify", authCtrl.VerifyCode)
	v1.POST("/auth/login/:flowId/back", authCtrl.Back)
	v1.POST("/auth/refresh", authCtrl.RefreshToken)
	v1.GET("/auth/session", auth.Authenticate(), authCtrl.GetSession)
	v1.POST("/auth/logout", auth.Authenticate(), authCtrl.Logout)

	v1.GET("/products", productCtrl.GetProducts)
	v1.GET("/products/:id", productCtrl.GetProductByID)
	v1.GET("/stores", storeCtrl.GetStores)
	v1.GET("/stores/:id", storeCtrl.GetStoreByID)

	v1.GET("/profile", auth.Authenticate(), profileCtrl.GetProfile)
	v1.PUT("/profile", auth.Authenticate(), profileCtrl.UpdateProfile)
	v1.PUT("/profile/onboarding", auth.Authenticate(), profileCtrl.CompleteOnboarding)
	v1.POST("/profile/avatar/upload-url", auth.Authenticate(), profileCtrl.AvatarUploadURL)

	v1.GET("/addresses", auth.Authenticate(), addressCtrl.ListAddresses)
	v1.POST("/addresses", auth.Authenticate(), addressCtrl.CreateAddress)
	v1.PUT("/addresses/:id", auth.Authenticate(), addressCtrl.UpdateAddress)
	v1.DELETE("/addresses/:id", auth.Authenticate(), addressCtrl.DeleteAddress)
	v1.PUT("/addresses/:id/default", auth.Authenticate(), addressCtrl.SetDefaultAddress)

	v1.GET("/cart", auth.Authenticate(), cartCtrl.GetCart)
	v1.POST("/cart", auth.Authenticate(), cartCtrl.AddToCart)
	v1.PUT("/cart/:id", auth.Authenticate(), cartCtrl.UpdateCartLine)
	v1.DELETE("/cart/:id", auth.Authenticate(), cartCtrl.RemoveFromCart)
	v1.DELETE("/cart", auth.Authenticate(), cartCtrl.ClearCart)

	v1.POST("/checkout", auth.Authenticate(), checkoutCtrl.StartCheckout)
	v1.GET("/checkout/:id", auth.Authenticate(), checkoutCtrl.GetCheckout)
	v1.PUT("/checkout/:id/address", auth.Authenticate(), checkoutCtrl.SelectAddress)
	v1.POST("/checkout/:id/address-form", auth.Authenticate(), checkoutCtrl.OpenAddressForm)
	v1.DELETE("/checkout/:id/address-form", auth.Authenticate(), checkoutCtrl.CloseAddressForm)
	v1.POST("/checkout/:id/addresses", auth.Authenticate(), checkoutCtrl.AddAddress)
	v1.PUT("/checkout/:id/delivery", auth.Authenticate(), checkoutCtrl.ChooseDelivery)
	v1.POST("/checkout/:id/next", auth.Authenticate(), checkoutCtrl.NextStep)
	v1.POST("/checkout/:id/back", auth.Authenticate(), checkoutCtrl.BackToStep)
	v1.POST("/checkout/:id/pay", auth.Authenticate(), checkoutCtrl.Pay)

	v1.GET("/payments/demo", paymentCtrl.DemoScreen)
	v1.POST("/payments/demo/:orderId/pay", paymentCtrl.CompleteDemoPayment)
	v1.POST("/payments/create", auth.OptionalAuth(), paymentCtrl.CreateSession)
	v1.POST("/payments/complete", paymentCtrl.CompletePayment)
	v1.POST("/payments/stripe/webhook", paymentCtrl.Webhook)

	v1.GET("/orders/:id/confirmation", orderCtrl.GetConfirmation)
	v1.GET("/orders", auth.Authenticate(), orderCtrl.GetOrders)
	v1.GET("/orders/export", auth.Authenticate(), orderCtrl.ExportOrders)
	v1.GET("/orders/:id", auth.Authenticate(), orderCtrl.GetOrderByID)
	v1.GET("/orders/:id/track", auth.Authenticate(), orderCtrl.TrackOrder)
	v1.GET("/orders/:id/track/ws", auth.Authenticate(), orderCtrl.TrackOrderWS)

	return &testServer{
		router:   router,
		db:       testDB,
		orders:   orders,
		mailer:   mailer,
		tracking: trackingService,
		hub:      hub,
	}
}

// do sends a JSON request with an optional bearer token.
func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body apperrors.ErrorResponse
	decode(t, w, &body)
	return body.Error
}

// toOTP walks a new login flow to the code step and returns its id.
func (s *testServer) toOTP(t *testing.T, channel model.Channel, identifier string) string {
	t.Helper()

	w := s.do(http.MethodPost, "/api/v1/auth/login", "", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var view service.LoginView
	decode(t, w, &view)
	flowID := view.Flow.ID

	w = s.do(http.MethodPost, "/api/v1/auth/login/"+flowID+"/method", "", ChooseMethodRequest{Channel: channel})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/v1/auth/login/"+flowID+"/identifier", "", SubmitIdentifierRequest{Identifier: identifier})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return flowID
}

func (s *testServer) verify(t *testing.T, flowID, code string) *service.LoginResult {
	t.Helper()
	w := s.do(http.MethodPost, "/api/v1/auth/login/"+flowID+"/verify", "", VerifyCodeRequest{Code: code})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var result service.LoginResult
	decode(t, w, &result)
	return &result
}

// loginDemo signs in the demo email account and returns its access token.
func (s *testServer) loginDemo(t *testing.T) string {
	t.Helper()
	return s.verify(t, s.toOTP(t, model.ChannelEmail, demoEmail), "123456").Tokens.AccessToken
}

// loginEmail signs in a real email identity with the mailed code.
func (s *testServer) loginEmail(t *testing.T, email string) *service.LoginResult {
	t.Helper()
	flowID := s.toOTP(t, model.ChannelEmail, email)
	return s.verify(t, flowID, s.mailer.lastCode(email))
}

func velloreAddress(label string) model.AddressFields {
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
