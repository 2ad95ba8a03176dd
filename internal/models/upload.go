package models

import "time"

// PresignUploadRequest defines the request body for an upload ticket
type PresignUploadRequest struct {
	Scope       string `json:"scope" validate:"required,oneof=profiles messages"`
	OwnerID     string `json:"owner_id"` // match id for the messages scope
	FileName    string `json:"file_name" validate:"required,max=255"`
	ContentType string `json:"content_type" validate:"required,max=100"`
	Size        int64  `json:"size" validate:"required,min=1"`
}

// UploadTicket is a presigned PUT the client uploads to directly
type UploadTicket struct {
	UploadURL string    `json:"upload_url"`
	Key       string    `json:"key"`
	PublicURL string    `json:"public_url,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}
