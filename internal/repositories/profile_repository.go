package repositories

import (
	"context"

	"github.com/anonto42/skill-exchange/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileFilter narrows ListProfiles. Zero fields are ignored.
type ProfileFilter struct {
	ExcludeID  string
	IDs        []string
	TeachSkill *string
	LearnSkill *string
}

// ProfileRepository defines the interface for the profile directory
type ProfileRepository interface {
	GetProfileByID(ctx context.Context, id string) (*models.Profile, error)
	ListProfiles(ctx context.Context, filter ProfileFilter) ([]models.Profile, error)
	UpsertProfile(ctx context.Context, profile *models.Profile) error
}

// PostgresProfileRepository implements ProfileRepository for PostgreSQL
type PostgresProfileRepository struct {
	db *gorm.DB
}

// NewPostgresProfileRepository creates a new PostgresProfileRepository
func NewPostgresProfileRepository(db *gorm.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

// GetProfileByID retrieves a profile by its user id
func (r *PostgresProfileRepository) GetProfileByID(ctx context.Context, id string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error; err != nil {
		return nil, translate(err)
	}
	return &profile, nil
}

// ListProfiles scans the directory with equality filters. There is no index
// on the skill columns, so a skill filter is a full table scan.
func (r *PostgresProfileRepository) ListProfiles(ctx context.Context, filter ProfileFilter) ([]models.Profile, error) {
	q := r.db.WithContext(ctx).Model(&models.Profile{})
	if filter.ExcludeID != "" {
		q = q.Where("id <> ?", filter.ExcludeID)
	}
	if filter.IDs != nil {
		if len(filter.IDs) == 0 {
			return []models.Profile{}, nil
		}
		q = q.Where("id IN ?", filter.IDs)
	}
	if filter.TeachSkill != nil {
		q = q.Where("teach_skill = ?", *filter.TeachSkill)
	}
	if filter.LearnSkill != nil {
		q = q.Where("learn_skill = ?", *filter.LearnSkill)
	}

	var profiles []models.Profile
	if err := q.Find(&profiles).Error; err != nil {
		return nil, translate(err)
	}
	return profiles, nil
}

// UpsertProfile inserts the profile or overwrites every field except created_at
func (r *PostgresProfileRepository) UpsertProfile(ctx context.Context, profile *models.Profile) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "bio", "teach_skill", "learn_skill", "hobby", "avatar_url",
			"github_url", "behance_url", "availability_mode", "meeting_platform",
			"is_top_mentor", "updated_at",
		}),
	}).Create(profile).Error
	return translate(err)
}
