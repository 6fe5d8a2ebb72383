package router

import (
	"net/http"
	"time"

	"github.com/clozet/clozet-backend/config"
	"github.com/clozet/clozet-backend/internal/app/controller"
	"github.com/clozet/clozet-backend/internal/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Router struct {
	authController     *controller.AuthController
	profileController  *controller.ProfileController
	addressController  *controller.AddressController
	cartController     *controller.CartController
	checkoutController *controller.CheckoutController
	paymentController  *controller.PaymentController
	orderController    *controller.OrderController
	productController  *controller.ProductController
	storeController    *controller.StoreController
	authMiddleware     *middleware.AuthMiddleware
	config             *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	profileController *controller.ProfileController,
	addressController *controller.AddressController,
	cartController *controller.CartController,
	checkoutController *controller.CheckoutController,
	paymentController *controller.PaymentController,
	orderController *controller.OrderController,
	productController *controller.ProductController,
	storeController *controller.StoreController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:     authController,
		profileController:  profileController,
		addressController:  addressController,
		cartController:     cartController,
		checkoutController: checkoutController,
		paymentController:  paymentController,
		orderController:    orderController,
		productController:  productController,
		storeController:    storeController,
		authMiddleware:     authMiddleware,
		config:             cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "clozet API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", r.authController.StartLogin)
			auth.GET("/login/:flowId", r.authController.GetLogin)
			auth.POST("/login/:flowId/method", r.authController.ChooseMethod)
			auth.POST("/login/:flowId/identifier", r.authController.SubmitIdentifier)
			auth.POST("/login/:flowId/resend", r.authController.ResendCode)
			auth.POST("/login/:flowId/verify", r.authController.VerifyCode)
			auth.POST("/login/:flowId/back", r.authController.Back)
			auth.POST("/refresh", r.authController.RefreshToken)
			auth.GET("/session", r.authMiddleware.Authenticate(), r.authController.GetSession)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
		}

		// the catalog is public
		products := v1.Group("/products")
		{
			products.GET("", r.productController.GetProducts)
			products.GET("/:id", r.productController.GetProductByID)
		}

		stores := v1.Group("/stores")
		{
			stores.GET("", r.storeController.GetStores)
			stores.GET("/:id", r.storeController.GetStoreByID)
		}

		profile := v1.Group("/profile")
		profile.Use(r.authMiddleware.Authenticate())
		{
			profile.GET("", r.profileController.GetProfile)
			profile.PUT("", r.profileController.UpdateProfile)
			profile.PUT("/onboarding", r.profileController.CompleteOnboarding)
			profile.POST("/avatar/upload-url", r.profileController.AvatarUploadURL)
		}

		addresses := v1.Group("/addresses")
		addresses.Use(r.authMiddleware.Authenticate())
		{
			addresses.GET("", r.addressController.ListAddresses)
			addresses.POST("", r.addressController.CreateAddress)
			addresses.PUT("/:id", r.addressController.UpdateAddress)
			addresses.DELETE("/:id", r.addressController.DeleteAddress)
			addresses.PUT("/:id/default", r.addressController.SetDefaultAddress)
		}

		cart := v1.Group("/cart")
		cart.Use(r.authMiddleware.Authenticate())
		{
			cart.GET("", r.cartController.GetCart)
			cart.POST("", r.cartController.AddToCart)
			cart.PUT("/:id", r.cartController.UpdateCartLine)
			cart.DELETE("/:id", r.cartController.RemoveFromCart)
			cart.DELETE("", r.cartController.ClearCart)
		}

		checkout := v1.Group("/checkout")
		checkout.Use(r.authMiddleware.Authenticate())
		{
			checkout.POST("", r.checkoutController.StartCheckout)
			checkout.GET("/:id", r.checkoutController.GetCheckout)
			checkout.PUT("/:id/address", r.checkoutController.SelectAddress)
			checkout.POST("/:id/address-form", r.checkoutController.OpenAddressForm)
			checkout.DELETE("/:id/address-form", r.checkoutController.CloseAddressForm)
			checkout.POST("/:id/addresses", r.checkoutController.AddAddress)
			checkout.PUT("/:id/delivery", r.checkoutController.ChooseDelivery)
			checkout.POST("/:id/next", r.checkoutController.NextStep)
			checkout.POST("/:id/back", r.checkoutController.BackToStep)
			checkout.POST("/:id/pay", r.checkoutController.Pay)
		}

		payments := v1.Group("/payments")
		{
			payments.GET("/demo", r.paymentController.DemoScreen)
			payments.POST("/demo/:orderId/pay", r.paymentController.CompleteDemoPayment)
			payments.POST("/create", r.authMiddleware.OptionalAuth(), r.paymentController.CreateSession)
			payments.POST("/complete", r.paymentController.CompletePayment)
			payments.POST("/stripe/webhook", r.paymentController.Webhook)
		}

		orders := v1.Group("/orders")
		{
			// the confirmation page is reachable straight from the payment provider redirect
			orders.GET("/:id/confirmation", r.orderController.GetConfirmation)

			authed := orders.Group("")
			authed.Use(r.authMiddleware.Authenticate())
			{
				authed.GET("", r.orderController.GetOrders)
				authed.GET("/export", r.orderController.ExportOrders)
				authed.GET("/:id", r.orderController.GetOrderByID)
				authed.GET("/:id/track", r.orderController.TrackOrder)
				authed.GET("/:id/track/ws", r.orderController.TrackOrderWS)
			}
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "Accept", "Origin", "Cache-Control", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "Retry-After", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	for _, origin := range allowedOrigins {
		if origin == "*" {
			cfg.AllowOrigins = nil
			cfg.AllowAllOrigins = true
			cfg.AllowCredentials = false
			break
		}
	}
	return cors.New(cfg)
}
