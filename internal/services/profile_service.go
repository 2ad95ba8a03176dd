package services

import (
	"context"
	"errors"

	"github.com/anonto42/skill-exchange/backend/internal/models"
	"github.com/anonto42/skill-exchange/backend/internal/repositories"
)

// ProfileService is the profile directory surface. Saving a profile runs
// auto-matching on the saved skills.
type ProfileService struct {
	profiles repositories.ProfileRepository
	matcher  *MatchService
}

func NewProfileService(profiles repositories.ProfileRepository, matcher *MatchService) *ProfileService {
	return &ProfileService{profiles: profiles, matcher: matcher}
}

func (s *ProfileService) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	profile, err := s.profiles.GetProfileByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound("profile %s", id)
		}
		return nil, storageErr("get profile", err)
	}
	return profile, nil
}

func (s *ProfileService) ListProfiles(ctx context.Context, filter repositories.ProfileFilter) ([]models.Profile, error) {
	profiles, err := s.profiles.ListProfiles(ctx, filter)
	if err != nil {
		return nil, storageErr("list profiles", err)
	}
	return profiles, nil
}

// SaveProfile upserts the profile and returns the matches auto-matching
// created. If auto-matching fails the profile stays saved.
func (s *ProfileService) SaveProfile(ctx context.Context, profile *models.Profile) (*models.Profile, []models.Match, error) {
	if profile.ID == "" {
		return nil, nil, invalid("profile id is required")
	}
	if err := s.profiles.UpsertProfile(ctx, profile); err != nil {
		return nil, nil, storageErr("upsert profile", err)
	}

	created, err := s.matcher.AutoMatchOnProfileSave(ctx, profile)
	if err != nil {
		return nil, nil, err
	}
	return profile, created, nil
}
