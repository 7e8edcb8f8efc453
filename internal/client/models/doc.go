// Package models defines typed views of drop analyzer API responses.
//
// The API client returns raw JSON; these types are only used by consumers
// that need structure (the CLI tables, the auth service).
package models
