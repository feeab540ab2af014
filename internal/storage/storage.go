package storage

import (
	"context"
	"errors"
	"time"
)

// DefaultPresignedURLExpiry applies when no expiry is configured.
const DefaultPresignedURLExpiry = 300 * time.Second

// ErrIssuerUnavailable is returned when a presigned reference cannot be signed.
var ErrIssuerUnavailable = errors.New("attachment issuer unavailable")

// FileStorage defines the interface for object storage operations.
type FileStorage interface {
	// GeneratePresignedUploadURL creates a temporary URL that allows one kind
	// of request, PUT, on objectKey until it expires. Nothing is persisted and
	// the key is not checked for existence.
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// ObjectURL is the stable reference to objectKey. The object may not exist yet.
	ObjectURL(objectKey string) string

	// DeleteObject removes an object from the storage provider.
	DeleteObject(ctx context.Context, objectKey string) error
}
