package client

import (
	"context"
	"encoding/json"
)

// API is the full set of backend calls. Each method performs exactly one
// HTTP request and returns the response body as received.
type API interface {
	Login(ctx context.Context, username, password string) (json.RawMessage, error)
	Register(ctx context.Context, username, password, email string) (json.RawMessage, error)

	AnalyzeDomains(ctx context.Context, domains []string) (json.RawMessage, error)
	LLMAnalyzeDomains(ctx context.Context, domains []any) (json.RawMessage, error)
	GetDomains(ctx context.Context, page, perPage int) (json.RawMessage, error)
	GetDomainDetail(ctx context.Context, domain string) (json.RawMessage, error)

	GetUserReports(ctx context.Context, page, perPage int) (json.RawMessage, error)
	DeleteReport(ctx context.Context, id int64) (json.RawMessage, error)
	ExportReports(ctx context.Context, format string, reportIDs []int64) (*Blob, error)

	GetSettings(ctx context.Context) (json.RawMessage, error)
	UpdateSettings(ctx context.Context, settings map[string]any) (json.RawMessage, error)

	GetUsers(ctx context.Context, page, perPage int, search string) (json.RawMessage, error)
	CreateUser(ctx context.Context, user UserInput) (json.RawMessage, error)
	UpdateUser(ctx context.Context, id int64, patch map[string]any) (json.RawMessage, error)
	DeleteUser(ctx context.Context, id int64) (json.RawMessage, error)

	Health(ctx context.Context) (json.RawMessage, error)
}

var _ API = (*HTTPClient)(nil)
