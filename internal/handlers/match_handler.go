package handlers

import (
	"net/http"

	"github.com/anonto42/skill-exchange/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// MatchHandler handles HTTP requests related to matches
type MatchHandler struct {
	matcher  MatchService
	profiles ProfileService
}

// NewMatchHandler creates a new MatchHandler
func NewMatchHandler(matcher MatchService, profiles ProfileService) *MatchHandler {
	return &MatchHandler{matcher: matcher, profiles: profiles}
}

// RegisterMatchRoutes registers match routes
func (h *MatchHandler) RegisterMatchRoutes(g *echo.Group) {
	g.GET("/matches", h.GetMatches)
	g.GET("/matches/candidates", h.GetCandidates)
	g.POST("/matches/request", h.RequestMatch)
	g.POST("/matches/auto", h.AutoMatch)
}

// GetMatches lists every match the caller is a party to
func (h *MatchHandler) GetMatches(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	matches, err := h.matcher.ListMatches(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, echo.Map{"matches": matches})
}

// GetCandidates lists the profiles complementing the caller's skills
func (h *MatchHandler) GetCandidates(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	candidates, err := h.matcher.ComputeCandidates(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, echo.Map{"candidates": candidates})
}

// RequestMatch creates (or returns) the match between the caller and a target
func (h *MatchHandler) RequestMatch(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}

	var req models.RequestMatchRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	match, created, err := h.matcher.RequestMatch(c.Request().Context(), userID, req.TargetUserID)
	if err != nil {
		return httpError(err)
	}

	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}
	return respond(c, code, echo.Map{"match": match, "created": created})
}

// AutoMatch re-runs auto-matching for the caller's current profile
func (h *MatchHandler) AutoMatch(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	profile, err := h.profiles.GetProfile(ctx, userID)
	if err != nil {
		return httpError(err)
	}
	created, err := h.matcher.AutoMatchOnProfileSave(ctx, profile)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, echo.Map{"createdMatches": created})
}
