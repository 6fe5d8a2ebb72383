package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clozet/clozet-backend/config"
	"github.com/clozet/clozet-backend/internal/app/controller"
	"github.com/clozet/clozet-backend/internal/app/demostore"
	"github.com/clozet/clozet-backend/internal/app/repository"
	"github.com/clozet/clozet-backend/internal/app/service"
	"github.com/clozet/clozet-backend/internal/app/store"
	"github.com/clozet/clozet-backend/internal/db"
	"github.com/clozet/clozet-backend/internal/middleware"
	"github.com/clozet/clozet-backend/internal/router"
	"github.com/clozet/clozet-backend/internal/scheduler"
	"github.com/clozet/clozet-backend/internal/storage"
	ws "github.com/clozet/clozet-backend/internal/websocket"
	"github.com/clozet/clozet-backend/pkg/logger"
	"github.com/clozet/clozet-backend/pkg/payment/stripecheckout"
	appredis "github.com/clozet/clozet-backend/pkg/redis"
	"github.com/clozet/clozet-backend/pkg/util"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logger.Initialize(logger.Config{
		Level:       cfg.Server.LogLevel,
		Format:      cfg.Server.LogFormat,
		EnableColor: cfg.Server.Environment == "development",
	})

	logger.Info("Starting clozet backend", map[string]interface{}{
		"environment":  cfg.Server.Environment,
		"port":         cfg.Server.Port,
		"payment_mode": cfg.Checkout.PaymentMode,
	})

	// Initialize database
	conn, err := db.Connect(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(conn); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(conn); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}
	if err := db.SeedCatalog(conn, cfg.Checkout.StoreID); err != nil {
		logger.Fatal("Failed to seed catalog", err)
	}

	// Initialize Redis
	redisClient, err := appredis.Connect(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", err)
	}
	defer redisClient.Close()

	// Stores and repositories
	demo := demostore.New(redisClient)
	selector := store.NewSelector(repository.NewStores(conn), demo.Stores())
	states := repository.NewStateRepository(redisClient)
	identities := repository.NewIdentityRepository(conn)
	orderRepo := repository.NewOrderRepository(conn)
	storeRepo := repository.NewStoreRepository(conn)
	productRepo := repository.NewProductRepository(conn)

	// Payment gateway; without a key only the demo payment path works
	var gateway service.CheckoutGateway
	if cfg.Stripe.SecretKey != "" {
		stripeClient, err := stripecheckout.NewClient(stripecheckout.Config{
			SecretKey:     cfg.Stripe.SecretKey,
			WebhookSecret: cfg.Stripe.WebhookSecret,
			Currency:      cfg.Stripe.Currency,
		})
		if err != nil {
			logger.Fatal("Failed to initialize Stripe client", err)
		}
		gateway = stripeClient
	} else {
		logger.Warn("STRIPE_SECRET_KEY not set, card payments are disabled")
	}

	// Realtime tracking
	hub := ws.NewHub()
	go hub.Run()

	// Initialize services
	mailer := util.NewMailer(util.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})
	provider := service.NewEmailCodeProvider(redisClient, mailer, identities, cfg.OTP.CodeTTL)
	authService := service.NewAuthService(
		states,
		identities,
		demo,
		selector,
		provider,
		appredis.NewTokenBlacklist(redisClient),
		cfg.JWT,
		cfg.OTP,
	)
	profileService := service.NewProfileService(storage.NewS3Storage(context.Background(), cfg.S3), orderRepo)
	addressService := service.NewAddressService()
	cartService := service.NewCartService()
	paymentService := service.NewPaymentService(orderRepo, storeRepo, gateway, cfg.Checkout)
	checkoutService := service.NewCheckoutService(states, addressService, paymentService, cfg.Checkout.DraftTTL)
	orderService := service.NewOrderService(orderRepo, paymentService)
	trackingService := service.NewTrackingService(cfg.Map, hub)
	productService := service.NewProductService(productRepo)
	storeService := service.NewStoreService(storeRepo)

	trackingScheduler := scheduler.NewTrackingScheduler(trackingService, cfg.Map.TrackingInterval)
	if err := trackingScheduler.Start(); err != nil {
		logger.Fatal("Failed to start tracking scheduler", err)
	}

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	profileController := controller.NewProfileController(profileService)
	addressController := controller.NewAddressController(addressService)
	cartController := controller.NewCartController(cartService)
	checkoutController := controller.NewCheckoutController(checkoutService)
	paymentController := controller.NewPaymentController(paymentService)
	orderController := controller.NewOrderController(orderService, trackingService, hub, cfg.CORS.AllowedOrigins)
	productController := controller.NewProductController(productService)
	storeController := controller.NewStoreController(storeService, productService)

	authMiddleware := middleware.NewAuthMiddleware(authService)

	r := router.NewRouter(
		authController,
		profileController,
		addressController,
		cartController,
		checkoutController,
		paymentController,
		orderController,
		productController,
		storeController,
		authMiddleware,
		cfg,
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           r.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}
	trackingScheduler.Stop()
	hub.Stop()

	logger.Info("Server stopped successfully")
}
