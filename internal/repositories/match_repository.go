package repositories

import (
	"context"

	"github.com/anonto42/skill-exchange/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MatchRepository defines the interface for match data operations
type MatchRepository interface {
	FindByPair(ctx context.Context, a, b string) ([]models.Match, error)
	Insert(ctx context.Context, user1, user2 string, status models.MatchStatus) (*models.Match, error)
	GetByID(ctx context.Context, id uint) (*models.Match, error)
	GetByIDs(ctx context.Context, ids []uint) ([]models.Match, error)
	UpdateStatus(ctx context.Context, id uint, status models.MatchStatus) (*models.Match, error)
	Delete(ctx context.Context, id uint) error
	ListForUser(ctx context.Context, userID string) ([]models.Match, error)
}

// PostgresMatchRepository implements MatchRepository for PostgreSQL
type PostgresMatchRepository struct {
	db *gorm.DB
}

// NewPostgresMatchRepository creates a new PostgresMatchRepository
func NewPostgresMatchRepository(db *gorm.DB) *PostgresMatchRepository {
	return &PostgresMatchRepository{db: db}
}

// FindByPair returns the matches between a and b in either order
func (r *PostgresMatchRepository) FindByPair(ctx context.Context, a, b string) ([]models.Match, error) {
	var matches []models.Match
	err := r.db.WithContext(ctx).
		Where("(user1 = ? AND user2 = ?) OR (user1 = ? AND user2 = ?)", a, b, b, a).
		Find(&matches).Error
	if err != nil {
		return nil, translate(err)
	}
	return matches, nil
}

// Insert creates a match. A row already holding the pair key makes the
// insert a no-op and ErrDuplicate is returned.
func (r *PostgresMatchRepository) Insert(ctx context.Context, user1, user2 string, status models.MatchStatus) (*models.Match, error) {
	match := &models.Match{User1: user1, User2: user2, Status: status}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "pair_key"}}, DoNothing: true}).
		Create(match)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrDuplicate
	}
	return match, nil
}

// GetByID retrieves a match by ID
func (r *PostgresMatchRepository) GetByID(ctx context.Context, id uint) (*models.Match, error) {
	var match models.Match
	if err := r.db.WithContext(ctx).First(&match, id).Error; err != nil {
		return nil, translate(err)
	}
	return &match, nil
}

// GetByIDs retrieves all matches with the given IDs in one query
func (r *PostgresMatchRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.Match, error) {
	if len(ids) == 0 {
		return []models.Match{}, nil
	}
	var matches []models.Match
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&matches).Error; err != nil {
		return nil, translate(err)
	}
	return matches, nil
}

// UpdateStatus sets the status of a match and returns the updated row
func (r *PostgresMatchRepository) UpdateStatus(ctx context.Context, id uint, status models.MatchStatus) (*models.Match, error) {
	res := r.db.WithContext(ctx).Model(&models.Match{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// Delete removes a match. Deleting a missing match is not an error.
func (r *PostgresMatchRepository) Delete(ctx context.Context, id uint) error {
	return translate(r.db.WithContext(ctx).Delete(&models.Match{}, id).Error)
}

// ListForUser retrieves every match the user is a party to, newest first
func (r *PostgresMatchRepository) ListForUser(ctx context.Context, userID string) ([]models.Match, error) {
	var matches []models.Match
	err := r.db.WithContext(ctx).
		Where("user1 = ? OR user2 = ?", userID, userID).
		Order("created_at DESC").
		Find(&matches).Error
	if err != nil {
		return nil, translate(err)
	}
	return matches, nil
}
