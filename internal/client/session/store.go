// Package session holds the client's single bearer credential.
//
// A Store has two states: absent (Get returns "") and present. Stores are
// injected into the HTTP client, which reads the credential before every
// request and clears it when the server answers 401.
package session

import "context"

type Store interface {
	// Get returns the current token or "" when no session is active.
	Get(ctx context.Context) (string, error)
	// Set replaces the current token. Setting "" is the same as Clear.
	Set(ctx context.Context, token string) error
	// Clear removes the token. Clearing an absent session is a no-op.
	Clear(ctx context.Context) error
}
