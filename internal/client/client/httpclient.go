package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/dropanalyzer/internal/client/session"
	"github.com/dmitrijs2005/dropanalyzer/internal/common"
	"github.com/dmitrijs2005/dropanalyzer/internal/logging"
	"github.com/google/uuid"
)

// HTTPClient talks to the drop analyzer REST API. It is safe for concurrent
// use; every call reads the credential from the store right before sending.
type HTTPClient struct {
	baseURL   string
	http      *http.Client
	store     session.Store
	navigator Navigator
	log       logging.Logger
}

type Option func(*HTTPClient)

// WithHTTPClient sets the underlying client. Its Transport is wrapped, not
// replaced, so test servers and proxies keep working.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		if hc != nil {
			cp := *hc
			c.http = &cp
		}
	}
}

func WithNavigator(n Navigator) Option {
	return func(c *HTTPClient) {
		if n != nil {
			c.navigator = n
		}
	}
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) {
		if l != nil {
			c.log = l
		}
	}
}

func New(baseURL string, store session.Store, opts ...Option) (*HTTPClient, error) {
	if store == nil {
		return nil, errors.New("session store is required")
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url %q: scheme must be http or https", baseURL)
	}

	c := &HTTPClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{},
		store:     store,
		navigator: nopNavigator{},
		log:       logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}

	next := c.http.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	c.http.Transport = &authTransport{store: store, host: canonicalHost(u), next: next}

	return c, nil
}

func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

type response struct {
	body        []byte
	contentType string
}

func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, body any) (*response, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, &RequestSetupError{Err: fmt.Errorf("encode %s %s body: %w", method, path, err)}
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, &RequestSetupError{Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set(common.RequestIDHeader, requestID)

	log := c.log.With("method", method, "path", path, "request_id", requestID)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		var setupErr *RequestSetupError
		if errors.As(err, &setupErr) {
			log.Warn(ctx, "request not sent", "error", setupErr.Err)
			return nil, setupErr
		}
		log.Warn(ctx, "request failed", "error", err, "duration", time.Since(start))
		return nil, &TransportError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Warn(ctx, "failed to read response", "error", err)
		return nil, &TransportError{Method: method, Path: path, Err: err}
	}

	log.Debug(ctx, "api call", "status", resp.StatusCode, "duration", time.Since(start))

	if err := c.handleResponse(ctx, method, path, resp.StatusCode, data); err != nil {
		return nil, err
	}
	return &response{body: data, contentType: resp.Header.Get("Content-Type")}, nil
}

// handleResponse passes 2xx through untouched. Any other status becomes a
// StatusError; a 401 also ends the local session and sends the user to the
// login route before the error is returned.
func (c *HTTPClient) handleResponse(ctx context.Context, method, path string, status int, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}

	serr := &StatusError{
		Method:     method,
		Path:       path,
		StatusCode: status,
		Message:    extractMessage(body),
		Body:       body,
	}

	if status == http.StatusUnauthorized {
		if err := c.store.Clear(ctx); err != nil {
			c.log.Error(ctx, "failed to clear session after 401", "path", path, "error", err)
		}
		c.log.Info(ctx, "session rejected by server", "path", path, "route", common.LoginRoute)
		c.navigator.Navigate(ctx, common.LoginRoute)
	}

	return serr
}

func extractMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}
