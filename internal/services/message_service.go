package services

import (
	"context"
	"errors"
	"strings"

	"github.com/anonto42/skill-exchange/backend/internal/models"
	"github.com/anonto42/skill-exchange/backend/internal/repositories"
)

// MessageService gates chat on match membership. Sending needs an accepted
// match; reading only needs membership.
type MessageService struct {
	messages repositories.MessageRepository
	matches  repositories.MatchRepository
}

func NewMessageService(messages repositories.MessageRepository, matches repositories.MatchRepository) *MessageService {
	return &MessageService{messages: messages, matches: matches}
}

func (s *MessageService) ListMessages(ctx context.Context, userID string, matchID uint) ([]models.Message, error) {
	if _, err := s.memberMatch(ctx, userID, matchID); err != nil {
		return nil, err
	}
	messages, err := s.messages.GetMessagesByMatchID(ctx, matchID)
	if err != nil {
		return nil, storageErr("list messages", err)
	}
	return messages, nil
}

func (s *MessageService) SendMessage(ctx context.Context, userID string, req models.SendMessageRequest) (*models.Message, error) {
	text := strings.TrimSpace(req.Text)
	if req.MatchID == 0 || (text == "" && req.FileURL == "") {
		return nil, invalid("match id and text or file url are required")
	}

	match, err := s.memberMatch(ctx, userID, req.MatchID)
	if err != nil {
		return nil, err
	}
	if match.Status != models.MatchStatusAccepted {
		return nil, forbidden("match %d is not accepted", match.ID)
	}

	message := &models.Message{
		MatchID: match.ID,
		Sender:  userID,
		Text:    text,
	}
	if req.FileURL != "" {
		message.FileURL = &req.FileURL
		message.FileName = nonEmpty(req.FileName)
		message.FileType = nonEmpty(req.FileType)
		if req.FileSize > 0 {
			size := req.FileSize
			message.FileSize = &size
		}
	}
	if err := s.messages.CreateMessage(ctx, message); err != nil {
		return nil, storageErr("create message", err)
	}
	return message, nil
}

// CheckMember fails unless userID is a party to matchID. Attachment uploads
// for a match are gated on it.
func (s *MessageService) CheckMember(ctx context.Context, userID string, matchID uint) error {
	_, err := s.memberMatch(ctx, userID, matchID)
	return err
}

func (s *MessageService) memberMatch(ctx context.Context, userID string, matchID uint) (*models.Match, error) {
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
	return match, nil
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
