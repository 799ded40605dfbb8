// Package storage provides the object-storage client used for uploads
// and undo-time deletes.
package storage

import "context"

// ObjectStore is the narrow surface the upload pipeline needs from a
// storage backend.
type ObjectStore interface {
	// Put stores data under bucket/key with the given content type.
	Put(ctx context.Context, bucket, key string, data []byte, contentType string) error

	// Delete removes bucket/key.
	Delete(ctx context.Context, bucket, key string) error
}
