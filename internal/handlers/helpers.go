package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/anonto42/skill-exchange/backend/internal/middleware"
	"github.com/anonto42/skill-exchange/backend/internal/models"
	"github.com/anonto42/skill-exchange/backend/internal/repositories"
	"github.com/anonto42/skill-exchange/backend/internal/services"
	"github.com/anonto42/skill-exchange/backend/pkg/storage"
	"github.com/labstack/echo/v4"
)

// ProfileService is what the profile and match handlers need from the profile directory
type ProfileService interface {
	GetProfile(ctx context.Context, id string) (*models.Profile, error)
	ListProfiles(ctx context.Context, filter repositories.ProfileFilter) ([]models.Profile, error)
	SaveProfile(ctx context.Context, profile *models.Profile) (*models.Profile, []models.Match, error)
}

type MatchService interface {
	ComputeCandidates(ctx context.Context, userID string) ([]models.Profile, error)
	AutoMatchOnProfileSave(ctx context.Context, saved *models.Profile) ([]models.Match, error)
	RequestMatch(ctx context.Context, userID, targetID string) (*models.Match, bool, error)
	ListMatches(ctx context.Context, userID string) ([]models.Match, error)
}

type NotificationService interface {
	ListNotifications(ctx context.Context, userID string) ([]models.EnrichedNotification, error)
	SendMatchRequest(ctx context.Context, senderID, recipientID string, matchID uint, message string) (*models.Notification, bool, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	MarkAsRead(ctx context.Context, userID string, notificationID uint) error
	MarkAllAsRead(ctx context.Context, userID string) error
}

type ResolutionService interface {
	Resolve(ctx context.Context, userID string, notificationID uint, action string) (*services.Resolution, error)
}

type MessageService interface {
	ListMessages(ctx context.Context, userID string, matchID uint) ([]models.Message, error)
	SendMessage(ctx context.Context, userID string, req models.SendMessageRequest) (*models.Message, error)
	CheckMember(ctx context.Context, userID string, matchID uint) error
}

// getUserIDFromContext returns the id set by the auth middleware, or "" when absent
func getUserIDFromContext(c echo.Context) string {
	id, _ := c.Get(middleware.UserIDKey).(string)
	return id
}

func requireUser(c echo.Context) (string, error) {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	return userID, nil
}

func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name)
	}
	return uint(id), nil
}

// bindAndValidate binds the request body into req and runs the echo validator
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	return nil
}

// httpError maps service and storage errors to HTTP errors. Unknown errors
// are logged and hidden behind a 500.
func httpError(err error) error {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		return he
	case errors.Is(err, services.ErrInvalidArgument),
		errors.Is(err, storage.ErrFileTooLarge),
		errors.Is(err, storage.ErrInvalidScope),
		errors.Is(err, storage.ErrEmptyOwner):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrUnauthorized):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	log.Printf("internal error: %v", err)
	return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
}

func respond(c echo.Context, code int, data interface{}) error {
	return c.JSON(code, echo.Map{"success": true, "data": data})
}
