package domain

import (
	"context"
)

// FileRepository defines the interface for file storage operations
// (member photos live on an S3-compatible store).
type FileRepository interface {
	// Upload saves a file and returns its public access URL
	Upload(ctx context.Context, file []byte, filename string, contentType string) (string, error)
}
