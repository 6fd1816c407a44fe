package repository

import "context"

// StorageRepository defines the interface for S3 interactions.
type StorageRepository interface {
	GetObject(ctx context.Context, uri string) ([]byte, error)
	PutFile(ctx context.Context, localPath, uri string) (string, error)
	CallerAccount(ctx context.Context) (string, error)
}
