package handlers

import (
	"net/http"

	"github.com/anonto42/skill-exchange/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// MessageHandler handles chat messages between matched users
type MessageHandler struct {
	messages MessageService
}

func NewMessageHandler(messages MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

func (h *MessageHandler) RegisterMessageRoutes(g *echo.Group) {
	g.GET("/matches/:id/messages", h.GetMessages)
	g.POST("/messages", h.SendMessage)
}

func (h *MessageHandler) GetMessages(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	matchID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	messages, err := h.messages.ListMessages(c.Request().Context(), userID, matchID)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, echo.Map{"messages": messages})
}

func (h *MessageHandler) SendMessage(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}

	var req models.SendMessageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	message, err := h.messages.SendMessage(c.Request().Context(), userID, req)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusCreated, echo.Map{"message": message})
}
