package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/server"
	"storefront/internal/services"
	"storefront/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	app, cleanup, err := NewApp(cfg)
	if err != nil {
		log.Fatalf("Failed to create app: %v", err)
	}
	defer cleanup()

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// NewApp opens the database, optionally connects to RabbitMQ and builds the
// Fiber app. cleanup releases both connections and must run after the app
// has shut down.
func NewApp(cfg config.Config) (*fiber.App, func(), error) {
	db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, err
	}

	var (
		publisher services.EventPublisher
		mqClient  *rabbitmq.Client
	)
	if cfg.RabbitMQEnabled {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.RabbitMQQueue})
		if err != nil {
			database.Close(db)
			return nil, nil, err
		}
		publisher = mqClient

		log.Println("Starting RabbitMQ consumer for domain events...")
		if err := mqClient.ConsumeEvents(rabbitmq.LogEvent); err != nil {
			// Publishing still works without the consumer.
			log.Printf("Failed to start RabbitMQ consumer: %v", err)
		}
	} else {
		log.Println("RabbitMQ disabled, domain events are not published")
	}

	cleanup := func() {
		if mqClient != nil {
			if err := mqClient.Close(); err != nil {
				log.Printf("Error closing RabbitMQ client: %v", err)
			}
		}
		database.Close(db)
	}
	return server.New(cfg, db, publisher), cleanup, nil
}
