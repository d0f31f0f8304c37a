package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/jsvasan/health-registration-api/internal/config"
	"github.com/jsvasan/health-registration-api/internal/handlers"
	"github.com/jsvasan/health-registration-api/internal/mail"
	"github.com/jsvasan/health-registration-api/internal/services"
	"github.com/jsvasan/health-registration-api/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables.")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	if err := run(logger); err != nil {
		logger.Error("server exited", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

// run holds every resource behind a defer so the notification queue drains
// and the Mongo client disconnects on any exit path.
func run(logger *zap.Logger) error {
	cfg := config.Load()
	if cfg.MongoURI == "" {
		return errors.New("MONGO_URI is not set")
	}
	if cfg.JWTSecret == "" {
		logger.Warn("JWT_SECRET is not set; admin session tokens disabled")
	}

	// --- Database connection ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	defer client.Disconnect(context.Background())
	db := client.Database(cfg.MongoDatabase)
	logger.Info("Connected to MongoDB", zap.String("database", cfg.MongoDatabase))

	// --- Stores and services ---
	registrationStore := store.NewMongoRegistrationStore(db)
	adminStore := store.NewMongoAdminStore(db)

	sender := mail.NewResendSender(cfg.ResendAPIKey, cfg.MailFrom, logger)
	notifier := services.NewNotificationService(sender, logger)
	defer notifier.Close()

	adminSvc := services.NewAdminService(adminStore, notifier, logger)
	registrationSvc := services.NewRegistrationService(registrationStore, adminSvc, notifier, logger)

	// --- Router ---
	h := handlers.NewHandler(registrationSvc, adminSvc, cfg.JWTSecret, logger)
	r := handlers.NewRouter(h, cfg.AllowedOrigin)

	logger.Info("Starting server", zap.String("port", cfg.APIPort))
	return r.Run(":" + cfg.APIPort)
}
