package router

import (
	"context"
	"log"
	"time"

	"github.com/anonto42/skill-exchange/backend/internal/events"
	"github.com/anonto42/skill-exchange/backend/internal/handlers"
	"github.com/anonto42/skill-exchange/backend/internal/models"
	"github.com/anonto42/skill-exchange/backend/internal/repositories"
	"github.com/anonto42/skill-exchange/backend/internal/services"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

const migrateTimeout = 30 * time.Second

// Deps are the connections and adapters the routes are built from
type Deps struct {
	Postgres  *gorm.DB
	Mongo     *mongo.Database
	Publisher events.Publisher
	// Presigner may be nil, which disables uploads
	Presigner handlers.UploadPresigner
	Auth      echo.MiddlewareFunc
}

// Migrate creates the PostgreSQL tables and indexes, and the Mongo message index
func Migrate(ctx context.Context, d Deps) error {
	if err := d.Postgres.WithContext(ctx).AutoMigrate(
		&models.Profile{},
		&models.Match{},
		&models.Notification{},
	); err != nil {
		return err
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	if err := repositories.NewMongoMessageRepository(d.Mongo).EnsureIndexes(ctx); err != nil {
		return err
	}
	log.Println("MongoDB message indexes ensured.")
	return nil
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, d Deps) {
	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	profileRepo := repositories.NewPostgresProfileRepository(d.Postgres)
	matchRepo := repositories.NewPostgresMatchRepository(d.Postgres)
	notificationRepo := repositories.NewPostgresNotificationRepository(d.Postgres)
	messageRepo := repositories.NewMongoMessageRepository(d.Mongo)

	// --- Services ---
	notifier := services.NewNotificationService(notificationRepo, matchRepo, profileRepo)
	matcher := services.NewMatchService(profileRepo, matchRepo, notifier, d.Publisher)
	resolver := services.NewResolutionService(notificationRepo, matchRepo, d.Publisher)
	profileService := services.NewProfileService(profileRepo, matcher)
	messageService := services.NewMessageService(messageRepo, matchRepo)

	// --- Protected routes ---
	api := e.Group("/api/v1")
	api.Use(d.Auth)

	handlers.NewProfileHandler(profileService).RegisterProfileRoutes(api)
	log.Println("Profile routes configured.")

	handlers.NewMatchHandler(matcher, profileService).RegisterMatchRoutes(api)
	log.Println("Match routes configured.")

	handlers.NewNotificationHandler(notifier, resolver).RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	handlers.NewMessageHandler(messageService).RegisterMessageRoutes(api)
	log.Println("Message routes configured.")

	handlers.NewUploadHandler(d.Presigner, messageService).RegisterUploadRoutes(api)
	if d.Presigner == nil {
		log.Println("Upload routes configured (disabled: no bucket).")
	} else {
		log.Println("Upload routes configured.")
	}

	log.Println("All routes configured.")
}

// MigrateWithTimeout runs Migrate with the startup deadline
func MigrateWithTimeout(d Deps) error {
	ctx, cancel := context.WithTimeout(context.Background(), migrateTimeout)
	defer cancel()
	return Migrate(ctx, d)
}
