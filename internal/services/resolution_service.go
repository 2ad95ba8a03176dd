package services

import (
	"context"
	"errors"

	"github.com/anonto42/skill-exchange/backend/internal/events"
	"github.com/anonto42/skill-exchange/backend/internal/models"
	"github.com/anonto42/skill-exchange/backend/internal/repositories"
)

// Action is a user's decision on a match request.
type Action string

const (
	ActionAccept Action = "accept"
	ActionReject Action = "reject"
)

// Match state machine:
//
//	pending ──accept──► accepted
//	   │
//	   └────reject────► (row deleted)
//
// accepted is terminal.
var matchTransitions = map[models.MatchStatus][]Action{
	models.MatchStatusPending: {ActionAccept, ActionReject},
}

// ParseAction converts a raw action, rejecting anything but accept/reject.
func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case ActionAccept, ActionReject:
		return a, nil
	}
	return "", invalid("unknown action %q", s)
}

// CanTransition reports whether action may be applied to a match in from.
func CanTransition(from models.MatchStatus, action Action) bool {
	for _, a := range matchTransitions[from] {
		if a == action {
			return true
		}
	}
	return false
}

// Resolution describes what Resolve did so callers can refresh their views.
type Resolution struct {
	NotificationID uint          `json:"notification_id"`
	Action         Action        `json:"action"`
	MatchID        *uint         `json:"match_id,omitempty"`
	Match          *models.Match `json:"match,omitempty"`
	Deleted        bool          `json:"deleted"`
}

// ResolutionService applies accept/reject decisions on notifications.
type ResolutionService struct {
	notifications repositories.NotificationRepository
	matches       repositories.MatchRepository
	publisher     events.Publisher
}

// NewResolutionService returns a configured ResolutionService.
func NewResolutionService(
	notifications repositories.NotificationRepository,
	matches repositories.MatchRepository,
	publisher events.Publisher,
) *ResolutionService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &ResolutionService{
		notifications: notifications,
		matches:       matches,
		publisher:     publisher,
	}
}

// Resolve applies action to the match behind notificationID, then marks the
// notification read. The steps are not transactional: a failure stops the
// sequence and earlier steps are kept.
func (s *ResolutionService) Resolve(ctx context.Context, userID string, notificationID uint, rawAction string) (*Resolution, error) {
	action, err := ParseAction(rawAction)
	if err != nil {
		return nil, err
	}

	n, err := s.notifications.GetByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound("notification %d", notificationID)
		}
		return nil, storageErr("get notification", err)
	}
	if n.UserID != userID {
		return nil, forbidden("notification %d belongs to another user", notificationID)
	}

	res := &Resolution{NotificationID: n.ID, Action: action}
	if n.IsMatchRequest() {
		res.MatchID = n.MatchID
		switch action {
		case ActionAccept:
			match, err := s.accept(ctx, userID, *n.MatchID)
			if err != nil {
				return nil, err
			}
			res.Match = match
		case ActionReject:
			if err := s.reject(ctx, userID, *n.MatchID); err != nil {
				return nil, err
			}
			res.Deleted = true
		}
	}

	if err := s.notifications.MarkAsRead(ctx, n.ID); err != nil {
		return nil, storageErr("mark read", err)
	}
	return res, nil
}

func (s *ResolutionService) accept(ctx context.Context, userID string, matchID uint) (*models.Match, error) {
	match, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound("match %d", matchID)
		}
		return nil, storageErr("get match", err)
	}
	if !match.HasUser(userID) {
		return nil, forbidden("user %s is not a party to match %d", userID, matchID)
	}
	if match.Status == models.MatchStatusAccepted {
		return match, nil
	}
	if !CanTransition(match.Status, ActionAccept) {
		return nil, invalid("match %d cannot be accepted from %s", matchID, match.Status)
	}

	updated, err := s.matches.UpdateStatus(ctx, matchID, models.MatchStatusAccepted)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound("match %d", matchID)
		}
		return nil, storageErr("accept match", err)
	}
	publish(ctx, s.publisher, events.MatchAccepted, updated, userID)
	return updated, nil
}

func (s *ResolutionService) reject(ctx context.Context, userID string, matchID uint) error {
	match, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			// already rejected
			return nil
		}
		return storageErr("get match", err)
	}
	if !match.HasUser(userID) {
		return forbidden("user %s is not a party to match %d", userID, matchID)
	}
	if !CanTransition(match.Status, ActionReject) {
		return invalid("match %d is already %s", matchID, match.Status)
	}

	if err := s.matches.Delete(ctx, matchID); err != nil {
		return storageErr("delete match", err)
	}
	publish(ctx, s.publisher, events.MatchRejected, match, userID)
	return nil
}
