// Package clienttest provides an in-process fake of the drop analyzer API
// for tests. Default routes behave like the real backend closely enough for
// the client and CLI flows; individual routes can be overridden per test.
package clienttest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
)

const (
	APIPrefix     = "/api/v1"
	AdminUsername = "admin"
	AdminPassword = "admin123"
)

// Request is a recorded incoming request. Path excludes APIPrefix and keeps
// its escaping.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

type user struct {
	ID       int64
	Username string
	Password string
	Email    string
	Role     string
	Active   bool
	Created  string
}

type Backend struct {
	Server *httptest.Server
	Secret []byte

	mu        sync.Mutex
	requests  []Request
	overrides map[string]http.HandlerFunc
	users     map[int64]*user
	nextUser  int64
	reports   map[int64]map[string]any
	settings  map[string]string
	domains   []map[string]any
}

func NewBackend(t testing.TB) *Backend {
	t.Helper()

	b := &Backend{
		Secret:    []byte("clienttest-secret"),
		overrides: map[string]http.HandlerFunc{},
		users:     map[int64]*user{},
		reports:   map[int64]map[string]any{},
		settings: map[string]string{
			"openrouter_model":      "openai/gpt-3.5-turbo",
			"report_retention_days": "30",
			"max_domains_per_batch": "10",
		},
	}
	b.addUser(AdminUsername, AdminPassword, "admin@example.com", "admin")
	for i, d := range []string{"tech-blog.com", "startup-hub.net", "learning-hub.edu"} {
		b.domains = append(b.domains, map[string]any{
			"id":            i + 1,
			"domain":        d,
			"quality_score": 70 + i*5,
			"is_good":       true,
			"recommended":   i%2 == 0,
		})
	}
	b.reports[1] = map[string]any{"id": int64(1), "type": "analysis", "data": map[string]any{}, "created_at": "2024-01-01 00:00:00", "domain": "tech-blog.com"}
	b.reports[2] = map[string]any{"id": int64(2), "type": "analysis", "data": map[string]any{}, "created_at": "2024-01-02 00:00:00", "domain": "startup-hub.net"}

	b.Server = httptest.NewServer(http.HandlerFunc(b.serve(b.router())))
	t.Cleanup(b.Server.Close)
	return b
}

// URL is the API base URL clients should be configured with.
func (b *Backend) URL() string {
	return b.Server.URL + APIPrefix
}

// Handle replaces the route "METHOD /path" (path without APIPrefix).
func (b *Backend) Handle(method, path string, h http.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.overrides[method+" "+path] = h
}

func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Request, len(b.requests))
	copy(out, b.requests)
	return out
}

// LastRequest returns the most recent request or fails the test.
func (b *Backend) LastRequest(t testing.TB) Request {
	t.Helper()
	reqs := b.Requests()
	if len(reqs) == 0 {
		t.Fatalf("no requests recorded")
	}
	return reqs[len(reqs)-1]
}

// IssueToken signs a token the fake backend accepts.
func (b *Backend) IssueToken(t testing.TB, userID int64, username, role string) string {
	t.Helper()
	tok, err := b.sign(userID, username, role, time.Now().Add(24*time.Hour))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

// AdminToken is a valid token for the seeded admin user.
func (b *Backend) AdminToken(t testing.TB) string {
	return b.IssueToken(t, 1, AdminUsername, "admin")
}

func (b *Backend) sign(userID int64, username, role string, exp time.Time) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  userID,
		"username": username,
		"role":     role,
		"exp":      exp.Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(b.Secret)
}

func (b *Backend) serve(next http.Handler) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(body))

		path := strings.TrimPrefix(r.URL.EscapedPath(), APIPrefix)

		b.mu.Lock()
		b.requests = append(b.requests, Request{
			Method: r.Method,
			Path:   path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
			Body:   body,
		})
		h := b.overrides[r.Method+" "+path]
		b.mu.Unlock()

		if h != nil {
			h(w, r)
			return
		}
		next.ServeHTTP(w, r)
	}
}

func (b *Backend) router() *mux.Router {
	r := mux.NewRouter().UseEncodedPath()
	api := r.PathPrefix(APIPrefix).Subrouter()

	api.HandleFunc("/health", b.health).Methods(http.MethodGet)
	api.HandleFunc("/auth/login", b.login).Methods(http.MethodPost)
	api.HandleFunc("/auth/register", b.register).Methods(http.MethodPost)

	authed := api.NewRoute().Subrouter()
	authed.Use(b.requireAuth)
	authed.HandleFunc("/domains/analyze", b.analyze).Methods(http.MethodPost)
	authed.HandleFunc("/domains/llm-analyze", b.llmAnalyze).Methods(http.MethodPost)
	authed.HandleFunc("/domains", b.listDomains).Methods(http.MethodGet)
	authed.HandleFunc("/domains/{domain}", b.domainDetail).Methods(http.MethodGet)
	authed.HandleFunc("/reports", b.listReports).Methods(http.MethodGet)
	authed.HandleFunc("/reports/export", b.exportReports).Methods(http.MethodPost)
	authed.HandleFunc("/reports/{id:[0-9]+}", b.deleteReport).Methods(http.MethodDelete)

	admin := authed.NewRoute().Subrouter()
	admin.Use(requireAdmin)
	admin.HandleFunc("/settings", b.getSettings).Methods(http.MethodGet)
	admin.HandleFunc("/settings", b.updateSettings).Methods(http.MethodPut)
	admin.HandleFunc("/admin/users", b.listUsers).Methods(http.MethodGet)
	admin.HandleFunc("/admin/users", b.createUser).Methods(http.MethodPost)
	admin.HandleFunc("/admin/users/{id:[0-9]+}", b.updateUser).Methods(http.MethodPut)
	admin.HandleFunc("/admin/users/{id:[0-9]+}", b.deleteUser).Methods(http.MethodDelete)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusNotFound, map[string]any{"message": "Not found"})
	})
	return r
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func message(w http.ResponseWriter, status int, format string, args ...any) {
	WriteJSON(w, status, map[string]any{"message": fmt.Sprintf(format, args...)})
}

func (b *Backend) addUser(username, password, email, role string) *user {
	b.nextUser++
	u := &user{
		ID:       b.nextUser,
		Username: username,
		Password: password,
		Email:    email,
		Role:     role,
		Active:   true,
		Created:  time.Date(2024, 1, 1, 0, 0, 0, int(b.nextUser), time.UTC).Format(time.RFC3339Nano),
	}
	b.users[u.ID] = u
	return u
}

func (b *Backend) findUser(username string) *user {
	for _, u := range b.users {
		if u.Username == username {
			return u
		}
	}
	return nil
}
