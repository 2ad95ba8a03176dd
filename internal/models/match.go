package models

import (
	"time"

	"gorm.io/gorm"
)

// MatchStatus values stored in matches.status. A rejected match is deleted,
// so there is no rejected status on disk.
type MatchStatus string

const (
	MatchStatusPending  MatchStatus = "pending"
	MatchStatusAccepted MatchStatus = "accepted"
)

// Match pairs two complementary profiles (PostgreSQL)
type Match struct {
	ID        uint        `json:"id" gorm:"primaryKey"`
	User1     string      `json:"user1" gorm:"size:128;not null;index"`
	User2     string      `json:"user2" gorm:"size:128;not null;index"`
	PairKey   string      `json:"-" gorm:"size:257;not null;uniqueIndex:idx_matches_pair_key"`
	Status    MatchStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	CreatedAt time.Time   `json:"created_at" gorm:"index"`
}

// BeforeCreate fills the canonical pair key backing the one-match-per-pair index
func (m *Match) BeforeCreate(tx *gorm.DB) error {
	m.PairKey = PairKey(m.User1, m.User2)
	return nil
}

// PairKey is the order-independent key of {a, b}
func PairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "|" + b
}

// HasUser reports whether userID is one of the two parties
func (m *Match) HasUser(userID string) bool {
	return m.User1 == userID || m.User2 == userID
}

// OtherUser returns the party that is not userID
func (m *Match) OtherUser(userID string) (string, bool) {
	switch userID {
	case m.User1:
		return m.User2, true
	case m.User2:
		return m.User1, true
	}
	return "", false
}

// RequestMatchRequest defines the request body for an explicit match request
type RequestMatchRequest struct {
	TargetUserID string `json:"target_user_id" validate:"required"`
}
