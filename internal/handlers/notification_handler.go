package handlers

import (
	"net/http"

	"github.com/anonto42/skill-exchange/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notifications NotificationService
	resolver      ResolutionService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifications NotificationService, resolver ResolutionService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, resolver: resolver}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.POST("/notifications", h.SendMatchRequest)
	g.POST("/notifications/resolve", h.Resolve)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
	g.PUT("/notifications/:id/read", h.MarkAsRead)
	g.PUT("/notifications/read-all", h.MarkAllAsRead)
}

// GetNotifications returns the caller's notifications, newest first, with
// sender details on match requests
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	notifications, err := h.notifications.ListNotifications(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, echo.Map{"notifications": notifications})
}

// SendMatchRequest notifies the other party of a match
func (h *NotificationHandler) SendMatchRequest(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}

	var req models.CreateNotificationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	notification, created, err := h.notifications.SendMatchRequest(c.Request().Context(), userID, req.TargetUserID, req.MatchID, req.Message)
	if err != nil {
		return httpError(err)
	}

	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}
	return respond(c, code, echo.Map{"notification": notification, "created": created})
}

// Resolve accepts or rejects the match request behind a notification
func (h *NotificationHandler) Resolve(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}

	var req models.ResolveNotificationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.resolver.Resolve(c.Request().Context(), userID, req.NotificationID, req.Action)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, res)
}

// GetUnreadCount returns the unread notification count
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	count, err := h.notifications.UnreadCount(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, echo.Map{"count": count})
}

// MarkAsRead marks one of the caller's notifications as read
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.notifications.MarkAsRead(c.Request().Context(), userID, id); err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, echo.Map{"id": id})
}

// MarkAllAsRead marks all of the caller's notifications as read
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	if err := h.notifications.MarkAllAsRead(c.Request().Context(), userID); err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, nil)
}
