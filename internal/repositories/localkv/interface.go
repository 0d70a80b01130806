// Package localkv provides the owner-scoped key-value persistence the draft
// store is built on. Implementations are typically backed by a local SQLite
// database.
package localkv

import "context"

// Repository describes the minimal byte-valued store the draft lifecycle
// needs. Get returns (nil, nil) for an absent key; Put replaces any previous
// value for the key, so high-frequency saves never grow the store.
type Repository interface {
	Put(ctx context.Context, key string, value []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
