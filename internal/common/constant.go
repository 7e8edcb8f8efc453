// Package common contains constants shared by the client layers.
package common

const (
	// AuthorizationHeader carries the bearer credential on outbound requests.
	AuthorizationHeader = "Authorization"

	// BearerPrefix precedes the credential in AuthorizationHeader.
	BearerPrefix = "Bearer "

	// RequestIDHeader tags each outbound request for log correlation.
	RequestIDHeader = "X-Request-ID"

	// AccessTokenKey is the metadata key the session credential is stored under.
	AccessTokenKey = "access_token"

	// LoginRoute is where the application navigates when the backend rejects
	// the current credential.
	LoginRoute = "/login"
)
