package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 10
	DefaultSearch  = ""
)

// UserInput is the body of an admin user creation request.
type UserInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
}

// Blob is a raw export file as returned by the server.
type Blob struct {
	ContentType string
	Data        []byte
}

func pageQuery(page, perPage int) url.Values {
	if page <= 0 {
		page = DefaultPage
	}
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))
	return q
}

func (c *HTTPClient) call(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	resp, err := c.do(ctx, method, path, query, body)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(resp.body), nil
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (json.RawMessage, error) {
	return c.call(ctx, http.MethodPost, "/auth/login", nil, map[string]string{
		"username": username,
		"password": password,
	})
}

func (c *HTTPClient) Register(ctx context.Context, username, password, email string) (json.RawMessage, error) {
	return c.call(ctx, http.MethodPost, "/auth/register", nil, map[string]string{
		"username": username,
		"password": password,
		"email":    email,
	})
}

func (c *HTTPClient) AnalyzeDomains(ctx context.Context, domains []string) (json.RawMessage, error) {
	if domains == nil {
		domains = []string{}
	}
	return c.call(ctx, http.MethodPost, "/domains/analyze", nil, map[string]any{"domains": domains})
}

// LLMAnalyzeDomains accepts plain domain names or previously returned
// analysis objects.
func (c *HTTPClient) LLMAnalyzeDomains(ctx context.Context, domains []any) (json.RawMessage, error) {
	if domains == nil {
		domains = []any{}
	}
	return c.call(ctx, http.MethodPost, "/domains/llm-analyze", nil, map[string]any{"domains": domains})
}

func (c *HTTPClient) GetDomains(ctx context.Context, page, perPage int) (json.RawMessage, error) {
	return c.call(ctx, http.MethodGet, "/domains", pageQuery(page, perPage), nil)
}

func (c *HTTPClient) GetDomainDetail(ctx context.Context, domain string) (json.RawMessage, error) {
	return c.call(ctx, http.MethodGet, "/domains/"+url.PathEscape(domain), nil, nil)
}

func (c *HTTPClient) GetUserReports(ctx context.Context, page, perPage int) (json.RawMessage, error) {
	return c.call(ctx, http.MethodGet, "/reports", pageQuery(page, perPage), nil)
}

func (c *HTTPClient) DeleteReport(ctx context.Context, id int64) (json.RawMessage, error) {
	return c.call(ctx, http.MethodDelete, "/reports/"+strconv.FormatInt(id, 10), nil, nil)
}

// ExportReports returns the export file unmodified.
func (c *HTTPClient) ExportReports(ctx context.Context, format string, reportIDs []int64) (*Blob, error) {
	if reportIDs == nil {
		reportIDs = []int64{}
	}
	resp, err := c.do(ctx, http.MethodPost, "/reports/export", nil, map[string]any{
		"format":     format,
		"report_ids": reportIDs,
	})
	if err != nil {
		return nil, err
	}
	return &Blob{ContentType: resp.contentType, Data: resp.body}, nil
}

func (c *HTTPClient) GetSettings(ctx context.Context) (json.RawMessage, error) {
	return c.call(ctx, http.MethodGet, "/settings", nil, nil)
}

func (c *HTTPClient) UpdateSettings(ctx context.Context, settings map[string]any) (json.RawMessage, error) {
	if settings == nil {
		settings = map[string]any{}
	}
	return c.call(ctx, http.MethodPut, "/settings", nil, settings)
}

func (c *HTTPClient) GetUsers(ctx context.Context, page, perPage int, search string) (json.RawMessage, error) {
	q := pageQuery(page, perPage)
	q.Set("search", search)
	return c.call(ctx, http.MethodGet, "/admin/users", q, nil)
}

func (c *HTTPClient) CreateUser(ctx context.Context, user UserInput) (json.RawMessage, error) {
	return c.call(ctx, http.MethodPost, "/admin/users", nil, user)
}

func (c *HTTPClient) UpdateUser(ctx context.Context, id int64, patch map[string]any) (json.RawMessage, error) {
	if patch == nil {
		patch = map[string]any{}
	}
	return c.call(ctx, http.MethodPut, "/admin/users/"+strconv.FormatInt(id, 10), nil, patch)
}

func (c *HTTPClient) DeleteUser(ctx context.Context, id int64) (json.RawMessage, error) {
	return c.call(ctx, http.MethodDelete, "/admin/users/"+strconv.FormatInt(id, 10), nil, nil)
}

func (c *HTTPClient) Health(ctx context.Context) (json.RawMessage, error) {
	return c.call(ctx, http.MethodGet, "/health", nil, nil)
}
