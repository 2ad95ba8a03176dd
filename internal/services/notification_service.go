package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anonto42/skill-exchange/backend/internal/models"
	"github.com/anonto42/skill-exchange/backend/internal/repositories"
)

// DefaultSenderName is used in match request messages when the sender's
// profile cannot be read.
const DefaultSenderName = "Someone"

// NotificationService creates deduplicated match request notifications and
// serves them back enriched with sender display data.
type NotificationService struct {
	notifications repositories.NotificationRepository
	matches       repositories.MatchRepository
	profiles      repositories.ProfileRepository
}

// NewNotificationService returns a configured NotificationService.
func NewNotificationService(
	notifications repositories.NotificationRepository,
	matches repositories.MatchRepository,
	profiles repositories.ProfileRepository,
) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		matches:       matches,
		profiles:      profiles,
	}
}

// MatchRequestMessage is the default text of a match request notification.
func MatchRequestMessage(senderName string) string {
	return fmt.Sprintf("New match request from %s", senderName)
}

// NotifyMatchRequest tells recipientID about matchID unless a match_request
// notification for the pair already exists, read or not. The sender is the
// other party of the match. The boolean result reports whether a row was
// inserted.
func (s *NotificationService) NotifyMatchRequest(ctx context.Context, recipientID string, matchID uint, message string) (*models.Notification, bool, error) {
	match, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, false, notFound("match %d", matchID)
		}
		return nil, false, storageErr("get match", err)
	}
	senderID, ok := match.OtherUser(recipientID)
	if !ok {
		return nil, false, forbidden("user %s is not a party to match %d", recipientID, matchID)
	}

	if existing, err := s.findExisting(ctx, recipientID, matchID); err != nil || existing != nil {
		return existing, false, err
	}

	if strings.TrimSpace(message) == "" {
		message = MatchRequestMessage(s.senderName(ctx, senderID))
	}

	notification := &models.Notification{
		UserID:  recipientID,
		Type:    models.NotificationTypeMatchRequest,
		Message: message,
		MatchID: &match.ID,
	}
	if err := s.notifications.Create(ctx, notification); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			existing, err := s.findExisting(ctx, recipientID, matchID)
			if err == nil && existing == nil {
				err = storageErr("create notification", repositories.ErrDuplicate)
			}
			return existing, false, err
		}
		return nil, false, storageErr("create notification", err)
	}
	return notification, true, nil
}

func (s *NotificationService) findExisting(ctx context.Context, recipientID string, matchID uint) (*models.Notification, error) {
	existing, err := s.notifications.FindExisting(ctx, recipientID, models.NotificationTypeMatchRequest, matchID)
	if err != nil {
		return nil, storageErr("find notification", err)
	}
	if len(existing) == 0 {
		return nil, nil
	}
	return &existing[0], nil
}

func (s *NotificationService) senderName(ctx context.Context, senderID string) string {
	sender, err := s.profiles.GetProfileByID(ctx, senderID)
	if err != nil {
		return DefaultSenderName
	}
	return sender.DisplayName(DefaultSenderName)
}

// SendMatchRequest is the caller-initiated form of NotifyMatchRequest: the
// sender must be the other party of the match.
func (s *NotificationService) SendMatchRequest(ctx context.Context, senderID, recipientID string, matchID uint, message string) (*models.Notification, bool, error) {
	if recipientID == "" || matchID == 0 {
		return nil, false, invalid("target user id and match id are required")
	}
	match, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, false, notFound("match %d", matchID)
		}
		return nil, false, storageErr("get match", err)
	}
	if other, ok := match.OtherUser(senderID); !ok || other != recipientID {
		return nil, false, forbidden("match %d is not between %s and %s", matchID, senderID, recipientID)
	}
	return s.NotifyMatchRequest(ctx, recipientID, matchID, message)
}

// ListNotifications returns the user's notifications, newest first. Match
// requests carry the sender's id, name and avatar when they can be resolved;
// a failed enrichment lookup never fails the read.
func (s *NotificationService) ListNotifications(ctx context.Context, userID string) ([]models.EnrichedNotification, error) {
	rows, err := s.notifications.ListForUser(ctx, userID)
	if err != nil {
		return nil, storageErr("list notifications", err)
	}

	enriched := make([]models.EnrichedNotification, len(rows))
	for i, n := range rows {
		enriched[i] = models.EnrichedNotification{Notification: n}
	}
	s.enrich(ctx, userID, enriched)
	return enriched, nil
}

// enrich resolves senders with one batched match lookup and one batched
// profile lookup.
func (s *NotificationService) enrich(ctx context.Context, userID string, items []models.EnrichedNotification) {
	matchIDs := make([]uint, 0)
	seenMatch := make(map[uint]bool)
	for _, n := range items {
		if n.IsMatchRequest() && !seenMatch[*n.MatchID] {
			seenMatch[*n.MatchID] = true
			matchIDs = append(matchIDs, *n.MatchID)
		}
	}
	if len(matchIDs) == 0 {
		return
	}

	matches, err := s.matches.GetByIDs(ctx, matchIDs)
	if err != nil {
		slog.Warn("notification enrichment skipped", "step", "matches", "userId", userID, "err", err)
		return
	}

	senderByMatch := make(map[uint]string, len(matches))
	senderIDs := make([]string, 0, len(matches))
	seenSender := make(map[string]bool)
	for i := range matches {
		sender, ok := matches[i].OtherUser(userID)
		if !ok {
			continue
		}
		senderByMatch[matches[i].ID] = sender
		if !seenSender[sender] {
			seenSender[sender] = true
			senderIDs = append(senderIDs, sender)
		}
	}
	if len(senderIDs) == 0 {
		return
	}

	profiles, err := s.profiles.ListProfiles(ctx, repositories.ProfileFilter{IDs: senderIDs})
	if err != nil {
		slog.Warn("notification enrichment skipped", "step", "profiles", "userId", userID, "err", err)
		return
	}
	profileByID := make(map[string]models.Profile, len(profiles))
	for _, p := range profiles {
		profileByID[p.ID] = p
	}

	for i := range items {
		if !items[i].IsMatchRequest() {
			continue
		}
		sender, ok := senderByMatch[*items[i].MatchID]
		if !ok {
			continue
		}
		items[i].SenderID = &sender
		if p, ok := profileByID[sender]; ok {
			if p.Name != "" {
				name := p.Name
				items[i].SenderName = &name
			}
			items[i].SenderAvatarURL = p.AvatarURL
		}
	}
}

// UnreadCount returns how many of the user's notifications are unread.
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	count, err := s.notifications.GetUnreadCount(ctx, userID)
	if err != nil {
		return 0, storageErr("count unread", err)
	}
	return count, nil
}

// MarkAsRead marks one of the user's notifications read.
func (s *NotificationService) MarkAsRead(ctx context.Context, userID string, notificationID uint) error {
	if _, err := s.owned(ctx, userID, notificationID); err != nil {
		return err
	}
	if err := s.notifications.MarkAsRead(ctx, notificationID); err != nil {
		return storageErr("mark read", err)
	}
	return nil
}

// MarkAllAsRead marks every notification of the user read.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID string) error {
	if err := s.notifications.MarkAllAsRead(ctx, userID); err != nil {
		return storageErr("mark all read", err)
	}
	return nil
}

func (s *NotificationService) owned(ctx context.Context, userID string, notificationID uint) (*models.Notification, error) {
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
	return n, nil
}
