// Package storage provides an S3-compatible object store used for lead
// document uploads and downloads.
package storage

import (
	"context"
	"io"
	"time"

	"outreach_portal_backend/platform/config"
)

// PresignedURL carries a time-limited URL for a direct object operation.
type PresignedURL struct {
	URL       string    `json:"url"`
	ObjectKey string    `json:"object_key"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ObjectStore is the storage surface the documents module depends on.
type ObjectStore interface {
	// Upload streams a file into the bucket under the given folder and
	// returns the generated object key.
	Upload(ctx context.Context, bucket, folder, fileName, contentType string, reader io.Reader, size int64) (string, error)

	// PresignDownload creates a time-limited GET URL for an object.
	PresignDownload(ctx context.Context, bucket, objectKey string) (*PresignedURL, error)

	// Delete removes an object.
	Delete(ctx context.Context, bucket, objectKey string) error

	// EnsureBucket creates the bucket when it does not exist yet.
	EnsureBucket(ctx context.Context, bucket string) error

	// ValidateContentType rejects MIME types outside the allow list.
	ValidateContentType(contentType string) error

	// ValidateFileSize rejects empty and oversized uploads.
	ValidateFileSize(sizeBytes int64) error
}

// Config is the configuration slice the MinIO client needs.
type Config = config.MinIOConfig
