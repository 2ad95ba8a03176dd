package main

import (
	"context"
	"log"

	"github.com/anonto42/skill-exchange/backend/internal/events"
	"github.com/anonto42/skill-exchange/backend/internal/handlers"
	"github.com/anonto42/skill-exchange/backend/internal/middleware"
	"github.com/anonto42/skill-exchange/backend/internal/router"
	"github.com/anonto42/skill-exchange/backend/pkg/config"
	"github.com/anonto42/skill-exchange/backend/pkg/firebase"
	"github.com/anonto42/skill-exchange/backend/pkg/storage"
	"github.com/anonto42/skill-exchange/backend/validators"
	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB()

	ctx := context.Background()

	// Authentication
	var auth echo.MiddlewareFunc
	switch cfg.AuthMode {
	case config.AuthModeJWT:
		auth = middleware.JWTAuthMiddleware([]byte(cfg.JWTSecret))
	default:
		firebaseApp, err := firebase.InitFirebase(ctx, firebase.Options{
			CredentialsPath: cfg.FirebaseCredentialsPath,
			ProjectID:       cfg.FirebaseProjectID,
			CheckRevoked:    cfg.FirebaseCheckRevoked,
		})
		if err != nil {
			log.Fatalf("Failed to initialize Firebase: %v", err)
		}
		auth = middleware.FirebaseAuthMiddleware(firebaseApp)
	}
	log.Printf("Authentication mode: %s", cfg.AuthMode)

	// Domain events
	var publisher events.Publisher = events.Nop{}
	if db.Redis != nil {
		publisher = events.NewRedisPublisher(db.Redis, cfg.EventChannelPrefix)
		log.Println("Publishing match events to Redis.")
	}

	// Uploads
	var presigner handlers.UploadPresigner
	if cfg.S3BucketName != "" {
		s3Presigner, err := storage.NewS3Presigner(ctx, cfg.AWSRegion, cfg.S3BucketName, cfg.UploadPublicBaseURL)
		if err != nil {
			log.Fatalf("Failed to initialize S3: %v", err)
		}
		presigner = s3Presigner
	}

	deps := router.Deps{
		Postgres:  db.Postgres,
		Mongo:     db.Mongo,
		Publisher: publisher,
		Presigner: presigner,
		Auth:      auth,
	}
	if err := router.MigrateWithTimeout(deps); err != nil {
		log.Fatalf("Failed to migrate: %v", err)
	}

	// Create Echo instance
	e := echo.New()
	config.SetupMiddleware(e, cfg)
	e.Validator = validators.NewValidator()
	router.SetupRoutes(e, deps)

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
