package server

import (
	"errors"
	"log"
	"time"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handlers"
	"storefront/internal/metrics"
	"storefront/internal/middleware"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

// New wires repositories, services and handlers on top of db and returns the
// Fiber app. publisher may be nil to disable domain events.
func New(cfg config.Config, db *gorm.DB, publisher services.EventPublisher) *fiber.App {
	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	contactRepo := repositories.NewGORMContactRepository(db)
	cartRepo := repositories.NewGORMCartRepository(db)

	// --- Services ---
	authService := services.NewAuthService(userRepo, publisher)
	tokenService := services.NewTokenService(userRepo, cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	contactService := services.NewContactService(contactRepo, publisher)
	cartService := services.NewCartService(cartRepo, publisher)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService, tokenService, cfg.CookieSecure)
	contactHandler := handlers.NewContactHandler(contactService)
	userHandler := handlers.NewUserHandler(authService)
	cartHandler := handlers.NewCartHandler(cartService)

	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler,
	})

	// --- Middleware ---
	metrics.Init()
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	app.Use(metrics.Middleware())

	app.Get("/metrics", metrics.Handler())

	api := app.Group("/api")
	api.Get("/health", healthHandler(db))

	requireAuth := middleware.AuthRequired(tokenService)
	authHandler.RegisterRoutes(api, requireAuth)

	contactHandler.RegisterRoutes(api, requireAuth)
	userHandler.RegisterRoutes(api, requireAuth)
	cartHandler.RegisterRoutes(api, requireAuth)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Route not found",
			"code":  "NOT_FOUND",
		})
	})

	return app
}

func corsConfig(origins string) cors.Config {
	cfg := cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}
	// Credentialed requests cannot be combined with a wildcard origin.
	if origins != "*" {
		cfg.AllowCredentials = true
	}
	return cfg
}

func healthHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbStatus := "connected"
		if err := database.Ping(c.UserContext(), db); err != nil {
			log.Printf("Health check database ping failed: %v", err)
			dbStatus = "disconnected"
		}
		return c.JSON(fiber.Map{
			"status":    "OK",
			"timestamp": time.Now().Format(time.RFC3339),
			"db":        dbStatus,
		})
	}
}

// ErrorHandler turns any error escaping a handler into the {error, code}
// body. Fiber errors keep their status; everything else is a 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := "INTERNAL_ERROR"
		switch fe.Code {
		case fiber.StatusNotFound:
			code = "NOT_FOUND"
		case fiber.StatusMethodNotAllowed:
			code = "METHOD_NOT_ALLOWED"
		default:
			if fe.Code < fiber.StatusInternalServerError {
				code = "BAD_REQUEST"
			}
		}
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message, "code": code})
	}

	log.Printf("Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal server error",
		"code":  "INTERNAL_ERROR",
	})
}
