package client

import (
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/dropanalyzer/internal/client/session"
	"github.com/dmitrijs2005/dropanalyzer/internal/common"
	"github.com/google/uuid"
)

// authTransport attaches the current credential to outgoing requests for
// the API host. Requests to any other host, such as the target of a
// cross-host redirect, never carry it.
type authTransport struct {
	store session.Store
	host  string
	next  http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := t.store.Get(req.Context())
	if err != nil {
		if req.Body != nil {
			_ = req.Body.Close()
		}
		return nil, &RequestSetupError{Err: err}
	}

	// RoundTrippers must not modify the caller's request.
	r := req.Clone(req.Context())
	if token != "" && canonicalHost(r.URL) == t.host {
		r.Header.Set(common.AuthorizationHeader, common.BearerPrefix+token)
	} else {
		r.Header.Del(common.AuthorizationHeader)
	}
	if r.Header.Get(common.RequestIDHeader) == "" {
		r.Header.Set(common.RequestIDHeader, uuid.NewString())
	}

	return t.next.RoundTrip(r)
}

// canonicalHost returns host:port in lower case with the scheme's default
// port filled in.
func canonicalHost(u *url.URL) string {
	port := u.Port()
	if port == "" {
		switch u.Scheme {
		case "https":
			port = "443"
		default:
			port = "80"
		}
	}
	return net.JoinHostPort(strings.ToLower(u.Hostname()), port)
}
