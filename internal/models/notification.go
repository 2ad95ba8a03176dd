package models

import "time"

// NotificationType values stored in notifications.type
type NotificationType string

const (
	NotificationTypeMatchRequest NotificationType = "match_request"
	NotificationTypeSystem       NotificationType = "system"
)

// Notification represents a user notification (PostgreSQL)
type Notification struct {
	ID        uint             `json:"id" gorm:"primaryKey"`
	UserID    string           `json:"user_id" gorm:"size:128;not null;index;uniqueIndex:idx_notifications_match_request,where:type = 'match_request'"`
	Type      NotificationType `json:"type" gorm:"size:30;not null;index"`
	Message   string           `json:"message"`
	MatchID   *uint            `json:"match_id" gorm:"index;uniqueIndex:idx_notifications_match_request,where:type = 'match_request'"`
	IsRead    bool             `json:"is_read" gorm:"default:false;index"`
	CreatedAt time.Time        `json:"created_at" gorm:"index"`
}

// IsMatchRequest reports whether the notification refers to a match
func (n *Notification) IsMatchRequest() bool {
	return n.Type == NotificationTypeMatchRequest && n.MatchID != nil
}

// EnrichedNotification includes the counterpart of a match request
type EnrichedNotification struct {
	Notification
	SenderID        *string `json:"sender_id,omitempty"`
	SenderName      *string `json:"sender_name,omitempty"`
	SenderAvatarURL *string `json:"sender_avatar_url,omitempty"`
}

// CreateNotificationRequest defines the request body for sending a match request notification
type CreateNotificationRequest struct {
	TargetUserID string `json:"target_user_id" validate:"required"`
	MatchID      uint   `json:"match_id" validate:"required"`
	Message      string `json:"message" validate:"max=280"`
}

// ResolveNotificationRequest defines the request body for accepting/rejecting a match request
type ResolveNotificationRequest struct {
	NotificationID uint   `json:"notification_id" validate:"required"`
	Action         string `json:"action" validate:"required"`
}
