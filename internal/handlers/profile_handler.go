package handlers

import (
	"net/http"
	"strings"

	"github.com/anonto42/skill-exchange/backend/internal/models"
	"github.com/anonto42/skill-exchange/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// ProfileHandler handles HTTP requests related to skill profiles
type ProfileHandler struct {
	profiles ProfileService
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profiles ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// RegisterProfileRoutes registers profile routes
func (h *ProfileHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/profile", h.GetOwnProfile)
	g.PUT("/profile", h.SaveProfile)
	g.GET("/profiles", h.ListProfiles)
	g.GET("/profiles/:id", h.GetProfile)
}

// GetOwnProfile returns the caller's profile
func (h *ProfileHandler) GetOwnProfile(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	profile, err := h.profiles.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, profile)
}

// GetProfile returns another user's profile
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	if _, err := requireUser(c); err != nil {
		return err
	}
	profile, err := h.profiles.GetProfile(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, profile)
}

// ListProfiles lists the directory. ?exclude=<id> drops one profile and
// ?ids=a,b restricts the result to the given ids.
func (h *ProfileHandler) ListProfiles(c echo.Context) error {
	if _, err := requireUser(c); err != nil {
		return err
	}

	filter := repositories.ProfileFilter{ExcludeID: c.QueryParam("exclude")}
	if raw := c.QueryParam("ids"); raw != "" {
		filter.IDs = []string{}
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				filter.IDs = append(filter.IDs, id)
			}
		}
	}

	profiles, err := h.profiles.ListProfiles(c.Request().Context(), filter)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, echo.Map{"profiles": profiles})
}

// SaveProfile upserts the caller's profile and runs auto-matching
func (h *ProfileHandler) SaveProfile(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}

	var req models.UpsertProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	profile, created, err := h.profiles.SaveProfile(c.Request().Context(), req.ToProfile(userID))
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, echo.Map{
		"profile":        profile,
		"createdMatches": created,
	})
}
