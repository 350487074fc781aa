// Package metadata is a small namespaced key/value store kept next to the
// readings table. The credential and the user preferences live in separate
// namespaces so clearing one never touches the other.
package metadata

import (
	"context"
)

const (
	NamespaceCredential  = "credential"
	NamespacePreferences = "preferences"
)

// Repository is a key/value view over one namespace.
type Repository interface {
	// Get returns (nil, nil) when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// SetMany writes all pairs in one transaction.
	SetMany(ctx context.Context, values map[string][]byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
