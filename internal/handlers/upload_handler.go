package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/anonto42/skill-exchange/backend/internal/models"
	"github.com/anonto42/skill-exchange/backend/pkg/storage"
	"github.com/labstack/echo/v4"
)

// UploadPresigner issues direct-to-bucket upload URLs
type UploadPresigner interface {
	Presign(ctx context.Context, scope, owner, fileName, contentType string, size int64) (*storage.PresignedUpload, error)
}

// UploadHandler hands out upload tickets for avatars and chat attachments
type UploadHandler struct {
	presigner UploadPresigner
	messages  MessageService
}

// NewUploadHandler creates a new UploadHandler. A nil presigner disables uploads.
func NewUploadHandler(presigner UploadPresigner, messages MessageService) *UploadHandler {
	return &UploadHandler{presigner: presigner, messages: messages}
}

func (h *UploadHandler) RegisterUploadRoutes(g *echo.Group) {
	g.POST("/uploads/presign", h.Presign)
}

// Presign returns an upload ticket. Profile uploads are keyed by the caller;
// message attachments by a match the caller belongs to.
func (h *UploadHandler) Presign(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	if h.presigner == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Uploads are not configured")
	}

	var req models.PresignUploadRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	owner := userID
	if req.Scope == storage.ScopeMessages {
		matchID, err := strconv.ParseUint(req.OwnerID, 10, 32)
		if err != nil || matchID == 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "owner_id must be a match id for message uploads")
		}
		if err := h.messages.CheckMember(ctx, userID, uint(matchID)); err != nil {
			return httpError(err)
		}
		owner = req.OwnerID
	}

	upload, err := h.presigner.Presign(ctx, req.Scope, owner, req.FileName, req.ContentType, req.Size)
	if err != nil {
		return httpError(err)
	}
	return respond(c, http.StatusOK, models.UploadTicket{
		UploadURL: upload.URL,
		Key:       upload.Key,
		PublicURL: upload.PublicURL,
		ExpiresAt: upload.ExpiresAt,
	})
}
