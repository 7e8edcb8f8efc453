package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNoSession = errors.New("no active session")

// Claims mirrors the payload the backend puts into its access tokens.
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// ParseClaims decodes the token payload without verifying the signature.
// The client has no signing key; the result is for display only.
func ParseClaims(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrNoSession
	}

	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("failed to decode token: %w", err)
	}
	return claims, nil
}

// Expired reports whether the token's exp claim is before now.
// Tokens without exp never expire.
func (c *Claims) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return false
	}
	return now.After(c.ExpiresAt.Time)
}

func (c *Claims) IsAdmin() bool {
	return c.Role == "admin"
}
