// Package routes wires repositories, services and handlers and defines
// the HTTP surface of the gateway.
package routes

import (
	"qrisgate/internal/config"
	"qrisgate/internal/handlers"
	"qrisgate/internal/middleware"
	"qrisgate/internal/repositories"
	"qrisgate/internal/services/auth"
	"qrisgate/internal/services/callback"
	"qrisgate/internal/services/duitku"
	"qrisgate/internal/services/payment"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes. The callback and buyer
// poll endpoints are public by protocol; everything storefront-facing
// sits behind the JWT middleware.
func SetupRoutes(app *fiber.App, db *gorm.DB, settings config.Settings) {
	orderRepo := repositories.NewOrderRepository(db)

	duitkuClient := duitku.NewClient(duitku.DefaultTimeout)

	paymentService := payment.NewService(orderRepo, duitkuClient, repositories.CacheService, settings)
	verifier := callback.NewVerifier(orderRepo, settings)

	authService := auth.NewService(
		config.GetEnv("GATEWAY_CLIENT_ID", "storefront"),
		config.GetEnv("GATEWAY_API_KEY_HASH", ""),
		config.GetEnv("JWT_SECRET", ""),
	)

	authHandler := handlers.NewAuthHandler(authService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	callbackHandler := handlers.NewCallbackHandler(verifier, paymentService)
	statusHandler := handlers.NewStatusHandler(paymentService)

	app.Get("/health", handlers.HealthCheck)

	api := app.Group("/api")

	// Public endpoints
	api.Post("/auth/token", authHandler.Token)
	api.Post("/payments/callback", callbackHandler.Handle)
	api.Get("/payments/:id/status", statusHandler.Check)

	// Storefront endpoints
	authMiddleware := middleware.NewAuthMiddleware(authService)
	protected := api.Use(authMiddleware.Handler)

	protected.Post("/payments", paymentHandler.CreatePayment)
	protected.Post("/payments/:id/inquiry", paymentHandler.RetryPayment)
	protected.Get("/payments/:id", paymentHandler.GetPayment)
}
