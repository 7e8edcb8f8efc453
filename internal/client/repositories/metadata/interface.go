// Package metadata is a tiny key/value store kept in the local session
// database. The client uses it to persist the access token between runs.
package metadata

import (
	"context"
)

type Repository interface {
	// Get returns the value for key, or ("", false, nil) when the key is absent.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
