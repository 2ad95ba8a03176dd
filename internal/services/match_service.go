package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/anonto42/skill-exchange/backend/internal/events"
	"github.com/anonto42/skill-exchange/backend/internal/models"
	"github.com/anonto42/skill-exchange/backend/internal/repositories"
)

// MatchService discovers complementary profiles and keeps one match per pair.
type MatchService struct {
	profiles  repositories.ProfileRepository
	matches   repositories.MatchRepository
	notifier  *NotificationService
	publisher events.Publisher
}

// NewMatchService returns a configured MatchService.
func NewMatchService(
	profiles repositories.ProfileRepository,
	matches repositories.MatchRepository,
	notifier *NotificationService,
	publisher events.Publisher,
) *MatchService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &MatchService{
		profiles:  profiles,
		matches:   matches,
		notifier:  notifier,
		publisher: publisher,
	}
}

// ComputeCandidates returns the profiles whose teach/learn skills are the
// exact mirror of the user's, in directory order.
func (s *MatchService) ComputeCandidates(ctx context.Context, userID string) ([]models.Profile, error) {
	me, err := s.profiles.GetProfileByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound("profile %s", userID)
		}
		return nil, storageErr("get profile", err)
	}
	return s.candidatesFor(ctx, me)
}

func (s *MatchService) candidatesFor(ctx context.Context, me *models.Profile) ([]models.Profile, error) {
	if me.TeachSkill == "" || me.LearnSkill == "" {
		return []models.Profile{}, nil
	}

	rows, err := s.profiles.ListProfiles(ctx, repositories.ProfileFilter{
		ExcludeID:  me.ID,
		TeachSkill: &me.LearnSkill,
		LearnSkill: &me.TeachSkill,
	})
	if err != nil {
		return nil, storageErr("list candidates", err)
	}

	candidates := make([]models.Profile, 0, len(rows))
	for _, p := range rows {
		if me.Complements(p) {
			candidates = append(candidates, p)
		}
	}
	return candidates, nil
}

// EnsureMatch makes sure a match exists between userID and candidateID.
// The boolean result reports whether this call created it. An existing
// pending match gets its missing match_request notification recreated for
// its recipient (user2), whichever side calls; existing matches are never
// updated or deleted.
func (s *MatchService) EnsureMatch(ctx context.Context, userID, candidateID string) (*models.Match, bool, error) {
	if userID == "" || candidateID == "" {
		return nil, false, invalid("both user ids are required")
	}
	if userID == candidateID {
		return nil, false, invalid("cannot match a profile with itself")
	}

	existing, err := s.matches.FindByPair(ctx, userID, candidateID)
	if err != nil {
		return nil, false, storageErr("find match", err)
	}
	if len(existing) > 0 {
		match := &existing[0]
		if err := s.ensurePendingNotification(ctx, match); err != nil {
			return nil, false, err
		}
		return match, false, nil
	}

	match, err := s.matches.Insert(ctx, userID, candidateID, models.MatchStatusPending)
	if errors.Is(err, repositories.ErrDuplicate) {
		// a concurrent writer inserted the pair between our lookup and insert
		existing, err = s.matches.FindByPair(ctx, userID, candidateID)
		if err != nil {
			return nil, false, storageErr("find match", err)
		}
		if len(existing) == 0 {
			return nil, false, storageErr("insert match", repositories.ErrDuplicate)
		}
		match := &existing[0]
		if err := s.ensurePendingNotification(ctx, match); err != nil {
			return nil, false, err
		}
		return match, false, nil
	}
	if err != nil {
		return nil, false, storageErr("insert match", err)
	}

	publish(ctx, s.publisher, events.MatchCreated, match, userID)

	if _, _, err := s.notifier.NotifyMatchRequest(ctx, candidateID, match.ID, ""); err != nil {
		return nil, false, err
	}
	return match, true, nil
}

// ensurePendingNotification notifies the recipient of a pending match. The
// initiator (user1) never receives a request for their own match.
func (s *MatchService) ensurePendingNotification(ctx context.Context, match *models.Match) error {
	if match.Status != models.MatchStatusPending {
		return nil
	}
	_, _, err := s.notifier.NotifyMatchRequest(ctx, match.User2, match.ID, "")
	return err
}

// AutoMatchOnProfileSave recomputes candidates from the just-saved skills and
// ensures a match with each. It returns the matches created by this call.
func (s *MatchService) AutoMatchOnProfileSave(ctx context.Context, saved *models.Profile) ([]models.Match, error) {
	candidates, err := s.candidatesFor(ctx, saved)
	if err != nil {
		return nil, err
	}

	created := make([]models.Match, 0)
	for _, c := range candidates {
		match, isNew, err := s.EnsureMatch(ctx, saved.ID, c.ID)
		if err != nil {
			return nil, err
		}
		if isNew {
			created = append(created, *match)
		}
	}
	return created, nil
}

// RequestMatch is an explicit request from userID to targetID.
func (s *MatchService) RequestMatch(ctx context.Context, userID, targetID string) (*models.Match, bool, error) {
	if targetID == "" {
		return nil, false, invalid("target user id is required")
	}
	if userID == targetID {
		return nil, false, invalid("cannot request a match with yourself")
	}
	if _, err := s.profiles.GetProfileByID(ctx, targetID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, false, notFound("profile %s", targetID)
		}
		return nil, false, storageErr("get profile", err)
	}
	return s.EnsureMatch(ctx, userID, targetID)
}

// ListMatches returns every match the user is a party to, newest first.
func (s *MatchService) ListMatches(ctx context.Context, userID string) ([]models.Match, error) {
	matches, err := s.matches.ListForUser(ctx, userID)
	if err != nil {
		return nil, storageErr("list matches", err)
	}
	return matches, nil
}

func publish(ctx context.Context, p events.Publisher, typ events.Type, match *models.Match, actorID string) {
	err := p.Publish(ctx, events.Event{
		Type:    typ,
		MatchID: match.ID,
		User1:   match.User1,
		User2:   match.User2,
		ActorID: actorID,
	})
	if err != nil {
		slog.Warn("publish match event failed", "type", typ, "matchId", match.ID, "err", err)
	}
}
