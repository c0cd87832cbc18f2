package storage

import (
	"context"
	"io"
)

// UploadResult describes a stored object.
type UploadResult struct {
	Key      string
	Location string
}

// FileUploader stores binary blobs (team and tournament logos) and returns
// a publicly reachable URL for them.
type FileUploader interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (*UploadResult, error)
}
