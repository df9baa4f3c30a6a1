package storage

import "context"

// Object describes a stored remote object: its public URL and the key
// needed to delete it later.
type Object struct {
	URL string
	Key string
}

// Service stores binary assets in remote object storage.
type Service interface {
	// UploadFile uploads a single local file and returns its remote
	// location. The caller owns cleanup of the local file.
	UploadFile(ctx context.Context, localPath string) (*Object, error)
	// DeleteObject removes a previously uploaded object by key.
	DeleteObject(ctx context.Context, key string) error
}
