package session

import (
	"net/http"
	"strings"
	"time"
)

// expiryHeaderSuffix names the companion header mirroring the session
// deadline to API clients.
const expiryHeaderSuffix = "-Expires"

// HeaderTransport carries the session token in an HTTP header, for API
// clients that do not speak cookies. It has no second channel for a visit
// token, so visit-scoped expiration degrades to session-lifetime scope.
// What such a client does get is the "<header>-Expires" companion: an
// RFC 3339 deadline for sessions with a fixed lifetime, absent for
// visit-length sessions, so the two kinds stay distinguishable.
type HeaderTransport struct {
	headerName   string
	prefix       string
	expiryHeader bool
}

// NewHeaderTransport creates a transport reading and writing the named
// header. Values are prefixed with "Bearer " unless overridden.
func NewHeaderTransport(headerName string, opts ...HeaderOption) *HeaderTransport {
	t := &HeaderTransport{
		headerName:   headerName,
		prefix:       "Bearer ",
		expiryHeader: true,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// HeaderOption is a functional option for HeaderTransport
type HeaderOption func(*HeaderTransport)

// WithHeaderPrefix sets a custom prefix for the header value
func WithHeaderPrefix(prefix string) HeaderOption {
	return func(t *HeaderTransport) {
		t.prefix = prefix
	}
}

// WithoutExpiryHeader suppresses the deadline companion header.
func WithoutExpiryHeader() HeaderOption {
	return func(t *HeaderTransport) {
		t.expiryHeader = false
	}
}

// GetToken extracts the session token from the request header.
func (t *HeaderTransport) GetToken(r *http.Request) (string, error) {
	value := r.Header.Get(t.headerName)
	if value == "" {
		return "", ErrSessionNotFound
	}

	if trimmed, ok := strings.CutPrefix(value, t.prefix); ok {
		return trimmed, nil
	}
	return value, nil
}

// SetToken writes the token and, for sessions with a fixed lifetime, the
// deadline companion. Visit-length sessions (zero ttl) carry no deadline.
func (t *HeaderTransport) SetToken(w http.ResponseWriter, token string, ttl time.Duration) error {
	w.Header().Set(t.headerName, t.prefix+token)

	if t.expiryHeader && ttl > 0 {
		w.Header().Set(t.headerName+expiryHeaderSuffix, time.Now().Add(ttl).Format(time.RFC3339))
	}

	return nil
}

// ClearToken removes the token and its deadline companion from the response.
func (t *HeaderTransport) ClearToken(w http.ResponseWriter) error {
	w.Header().Del(t.headerName)
	w.Header().Del(t.headerName + expiryHeaderSuffix)
	return nil
}
