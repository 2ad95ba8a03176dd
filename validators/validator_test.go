package validators_test

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/anonto42/skill-exchange/backend/internal/models"
	"github.com/anonto42/skill-exchange/backend/validators"
	"github.com/labstack/echo/v4"
)

func TestValidate(t *testing.T) {
	v := validators.NewValidator()

	ok := models.ResolveNotificationRequest{NotificationID: 3, Action: "accept"}
	if err := v.Validate(ok); err != nil {
		t.Fatalf("Validate(valid) = %v", err)
	}

	err := v.Validate(models.ResolveNotificationRequest{})
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("Validate(empty) = %v, want 400", err)
	}
	msg, _ := he.Message.(string)
	if !strings.Contains(msg, "NotificationID") || !strings.Contains(msg, "Action") {
		t.Errorf("message = %q, want both fields", msg)
	}
}

func TestValidateProfileSkills(t *testing.T) {
	v := validators.NewValidator()
	req := models.UpsertProfileRequest{
		Name:        "Ada",
		TeachSkills: []string{"Go"},
		LearnSkills: []string{""},
	}
	if err := v.Validate(req); err == nil {
		t.Error("blank skill label should fail validation")
	}

	req.LearnSkills = []string{"Rust"}
	if err := v.Validate(req); err != nil {
		t.Errorf("Validate = %v", err)
	}
}

func TestValidateUploadScope(t *testing.T) {
	v := validators.NewValidator()
	req := models.PresignUploadRequest{Scope: "avatars", FileName: "a.png", ContentType: "image/png", Size: 10}
	if err := v.Validate(req); err == nil {
		t.Error("unknown scope should fail validation")
	}
}
