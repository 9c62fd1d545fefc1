package session

import (
	"net/http"
	"time"
)

// Transport defines how session tokens travel between client and server
type Transport interface {
	// GetToken extracts the session token from the request
	GetToken(r *http.Request) (string, error)

	// SetToken sends the session token in the response. A ttl of 0 means
	// the token should only survive the client's visit.
	SetToken(w http.ResponseWriter, token string, ttl time.Duration) error

	// ClearToken removes the session token from the response
	ClearToken(w http.ResponseWriter) error
}

// VisitTransport is an optional interface for transports that can also carry
// a visit token: one that the client discards when its visit ends. The
// cookie transport implements it with a browser-session cookie. Without it,
// visit-scoped expiration degrades to session-lifetime scope.
type VisitTransport interface {
	// GetVisitToken extracts the visit token from the request
	GetVisitToken(r *http.Request) (string, error)

	// SetVisitToken sends the visit token in the response
	SetVisitToken(w http.ResponseWriter, token string) error
}
