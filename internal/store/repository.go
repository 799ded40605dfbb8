// Package store provides the key/value metadata persistence surface
// backing the profile list, the active-profile pointers and the upload
// ledger. Implementations exist for sqlite (default) and postgres.
package store

import "context"

// Repository is a small KV persistence surface. Get returns (nil, nil)
// when the key is absent.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
