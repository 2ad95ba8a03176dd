package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is a chat message between the parties of an accepted match (MongoDB)
type Message struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	MatchID   uint               `json:"match_id" bson:"match_id"`
	Sender    string             `json:"sender" bson:"sender"`
	Text      string             `json:"text" bson:"text"`
	FileURL   *string            `json:"file_url,omitempty" bson:"file_url,omitempty"`
	FileName  *string            `json:"file_name,omitempty" bson:"file_name,omitempty"`
	FileType  *string            `json:"file_type,omitempty" bson:"file_type,omitempty"`
	FileSize  *int64             `json:"file_size,omitempty" bson:"file_size,omitempty"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// SendMessageRequest defines the request body for sending a chat message
type SendMessageRequest struct {
	MatchID  uint   `json:"match_id" validate:"required"`
	Text     string `json:"text" validate:"max=4000"`
	FileURL  string `json:"file_url" validate:"omitempty,url"`
	FileName string `json:"file_name" validate:"max=255"`
	FileType string `json:"file_type" validate:"max=100"`
	FileSize int64  `json:"file_size" validate:"min=0"`
}
