package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/littleshop/catalog-api/internal/config"
	"github.com/littleshop/catalog-api/internal/handler"
	"github.com/littleshop/catalog-api/internal/repository"
	"github.com/littleshop/catalog-api/internal/service"
	"github.com/littleshop/catalog-api/internal/validator"
	"github.com/littleshop/catalog-api/pkg/database"
)

func main() {
	// Load configuration first
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Initialize zerolog based on configuration
	initLogger(cfg)

	// Create context for startup
	ctx := context.Background()

	// Initialize database pool with retry, then apply the schema
	pool, err := database.NewPool(ctx, cfg.DB.DSN(), 5)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("failed to apply database schema")
	}

	// Initialize Fiber with production-ready configuration
	app := fiber.New(fiber.Config{
		AppName:      "Little Shop Catalog API",
		ReadTimeout:  30 * time.Second,  // Max time to read request
		WriteTimeout: 30 * time.Second,  // Max time to write response
		IdleTimeout:  120 * time.Second, // Max time for keep-alive connections
		BodyLimit:    1 * 1024 * 1024,   // 1MB body limit (explicit, prevents large payloads)
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New()) // Adds X-Request-ID header to all requests
	app.Use(logger.New())

	// Initialize validator
	validate := validator.New()

	// Repositories
	merchantRepo := repository.NewMerchantRepository(pool)
	customerRepo := repository.NewCustomerRepository(pool)
	itemRepo := repository.NewItemRepository(pool)
	couponRepo := repository.NewCouponRepository(pool)
	invoiceRepo := repository.NewInvoiceRepository(pool)

	// Services (layered architecture)
	couponService := service.NewCouponService(pool, couponRepo, merchantRepo, invoiceRepo)
	invoiceService := service.NewInvoiceService(pool, invoiceRepo, couponRepo, merchantRepo, customerRepo)
	merchantService := service.NewMerchantService(merchantRepo, couponRepo, invoiceRepo, itemRepo)
	itemService := service.NewItemService(itemRepo, merchantRepo)

	// Handlers
	merchantHandler := handler.NewMerchantHandler(merchantService, validate)
	couponHandler := handler.NewCouponHandler(couponService, validate)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService, validate)
	itemHandler := handler.NewItemHandler(itemService, validate)
	healthHandler := handler.NewHealthHandler(pool)

	app.Get("/health", healthHandler.Check)

	v1 := app.Group("/api/v1")

	// Merchant routes
	v1.Post("/merchants", merchantHandler.CreateMerchant)
	v1.Get("/merchants", merchantHandler.ListMerchants)
	v1.Get("/merchants/find_all", merchantHandler.ListMerchants) // legacy reporting alias
	v1.Get("/merchants/:id/summary", merchantHandler.GetSummary)
	v1.Get("/merchants/:id/customers", merchantHandler.ListCustomers)
	v1.Get("/merchants/:id", merchantHandler.GetMerchant)
	v1.Patch("/merchants/:id", merchantHandler.UpdateMerchant)
	v1.Delete("/merchants/:id", merchantHandler.DeleteMerchant)

	// Coupon routes
	v1.Post("/merchants/:merchant_id/coupons", couponHandler.CreateCoupon)
	v1.Get("/merchants/:merchant_id/coupons", couponHandler.ListCoupons)
	v1.Get("/merchants/:merchant_id/coupons/:id", couponHandler.GetCoupon)
	v1.Patch("/merchants/:merchant_id/coupons/:id", couponHandler.UpdateCoupon)

	// Invoice routes
	v1.Post("/merchants/:merchant_id/invoices", invoiceHandler.CreateInvoice)
	v1.Get("/merchants/:merchant_id/invoices", invoiceHandler.ListInvoices)

	// Item routes
	v1.Get("/merchants/:merchant_id/items", itemHandler.ListMerchantItems)
	v1.Post("/items", itemHandler.CreateItem)
	v1.Get("/items/find", itemHandler.FindItem)
	v1.Get("/items/find_all", itemHandler.FindAllItems)
	v1.Get("/items/:id", itemHandler.GetItem)
	v1.Patch("/items/:id", itemHandler.UpdateItem)
	v1.Delete("/items/:id", itemHandler.DeleteItem)

	// Start server with graceful shutdown
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
	log.Info().Int("timeout_seconds", cfg.Server.ShutdownTimeout).Msg("shutting down server...")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer shutdownCancel()

	// Shutdown server (waits for in-flight requests)
	log.Info().Msg("waiting for in-flight requests to complete...")
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	// Close database pool AFTER server shutdown (even if shutdown timed out)
	log.Info().Msg("closing database connections...")
	pool.Close()
	log.Info().Msg("database connections closed")
	log.Info().Msg("server stopped")
}

// initLogger configures zerolog based on the application configuration.
func initLogger(cfg *config.Config) {
	// Set log level
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Log.Pretty {
		// Human-readable output for development
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
			With().Timestamp().Logger()
	} else {
		// JSON output for production
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
}
