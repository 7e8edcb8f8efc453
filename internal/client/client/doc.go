// Package client is the authenticated HTTP client for the drop analyzer API.
//
// # Overview
//
// HTTPClient wraps net/http with two stages:
//  1. Outbound: an http.RoundTripper reads the bearer token from a
//     session.Store right before each request and sets the Authorization
//     header. No token means no header.
//  2. Inbound: non-2xx responses become *StatusError. A 401 clears the
//     store and asks the Navigator to go to the login route, then the error
//     is still returned to the caller.
//
// The endpoint methods (see API) map one-to-one to backend routes and return
// response bodies verbatim as json.RawMessage. Callers decode them with the
// types in the models package when they need structure.
//
// # Error Handling
//
// Match with errors.Is against ErrUnauthorized, ErrUnavailable and
// ErrRequestSetup, or use errors.As with *StatusError, *TransportError and
// *RequestSetupError for details.
//
// There are no retries and no client-side timeout; cancel the context to
// abandon a call.
package client
