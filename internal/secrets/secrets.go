// Package secrets holds storage credentials separately from profile
// metadata. Values are sealed with AES-GCM before they reach the
// database and are never logged or exported.
package secrets

import "context"

// Store is a secret-capable key/value store. Get returns (nil, nil)
// when the key is absent.
type Store interface {
	Store(ctx context.Context, key string, value []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
