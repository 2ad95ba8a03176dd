// Package storage issues presigned S3 upload URLs. Clients PUT the file
// directly to the bucket; the server never proxies bytes.
package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const (
	MaxUploadSize  int64 = 30 * 1024 * 1024
	PresignExpires       = 15 * time.Minute

	ScopeProfiles = "profiles"
	ScopeMessages = "messages"
)

var (
	ErrFileTooLarge = errors.New("file exceeds the 30MB upload limit")
	ErrInvalidScope = errors.New("unknown upload scope")
	ErrEmptyOwner   = errors.New("upload owner is required")
)

var unsafeChars = regexp.MustCompile(`[^\w.\-]+`)

// PresignedUpload is a one-off PUT target
type PresignedUpload struct {
	URL       string
	Key       string
	PublicURL string
	ExpiresAt time.Time
}

type S3Presigner struct {
	presigner     *s3.PresignClient
	bucket        string
	publicBaseURL string
	now           func() time.Time
}

// NewS3Presigner loads the default AWS credential chain for region.
func NewS3Presigner(ctx context.Context, region, bucket, publicBaseURL string) (*S3Presigner, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewS3PresignerFromClient(s3.NewFromConfig(cfg), bucket, publicBaseURL), nil
}

func NewS3PresignerFromClient(client *s3.Client, bucket, publicBaseURL string) *S3Presigner {
	return &S3Presigner{
		presigner:     s3.NewPresignClient(client),
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		now:           time.Now,
	}
}

// Presign validates the upload and returns a PUT URL for
// <scope>/<owner>/<uuid>-<sanitized name>.
func (p *S3Presigner) Presign(ctx context.Context, scope, owner, fileName, contentType string, size int64) (*PresignedUpload, error) {
	if size > MaxUploadSize {
		return nil, ErrFileTooLarge
	}
	key, err := ObjectKey(scope, owner, fileName)
	if err != nil {
		return nil, err
	}

	req, err := p.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.bucket),
		Key:           aws.String(key),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	}, s3.WithPresignExpires(PresignExpires))
	if err != nil {
		return nil, fmt.Errorf("presign put %s: %w", key, err)
	}

	upload := &PresignedUpload{
		URL:       req.URL,
		Key:       key,
		ExpiresAt: p.now().Add(PresignExpires),
	}
	if p.publicBaseURL != "" {
		upload.PublicURL = p.publicBaseURL + "/" + key
	}
	return upload, nil
}

// ObjectKey builds the bucket key of a new upload
func ObjectKey(scope, owner, fileName string) (string, error) {
	if scope != ScopeProfiles && scope != ScopeMessages {
		return "", fmt.Errorf("%w: %q", ErrInvalidScope, scope)
	}
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return "", ErrEmptyOwner
	}
	owner = unsafeChars.ReplaceAllString(owner, "_")
	return fmt.Sprintf("%s/%s/%s-%s", scope, owner, uuid.NewString(), SanitizeFileName(fileName)), nil
}

// SanitizeFileName replaces every run of characters outside [A-Za-z0-9_.-]
// with a single underscore.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "file"
	}
	return unsafeChars.ReplaceAllString(name, "_")
}
