package session

import (
	"net/http"
	"time"
)

// CompositeTransport tries multiple transports in order. Visit tokens are
// served by the first member that supports them.
type CompositeTransport struct {
	transports []Transport
}

// NewCompositeTransport creates a composite transport that tries multiple transports
func NewCompositeTransport(transports ...Transport) *CompositeTransport {
	return &CompositeTransport{
		transports: transports,
	}
}

// GetToken extracts the session token from the first successful transport
func (t *CompositeTransport) GetToken(r *http.Request) (string, error) {
	for _, transport := range t.transports {
		token, err := transport.GetToken(r)
		if err == nil && token != "" {
			return token, nil
		}
	}
	return "", ErrSessionNotFound
}

// SetToken sends the session token via all configured transports
func (t *CompositeTransport) SetToken(w http.ResponseWriter, token string, ttl time.Duration) error {
	var lastErr error
	for _, transport := range t.transports {
		if err := transport.SetToken(w, token, ttl); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// ClearToken removes the session token from all configured transports
func (t *CompositeTransport) ClearToken(w http.ResponseWriter) error {
	var lastErr error
	for _, transport := range t.transports {
		if err := transport.ClearToken(w); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// GetVisitToken extracts the visit token from the first member supporting it.
func (t *CompositeTransport) GetVisitToken(r *http.Request) (string, error) {
	for _, transport := range t.transports {
		if vt, ok := transport.(VisitTransport); ok {
			if token, err := vt.GetVisitToken(r); err == nil && token != "" {
				return token, nil
			}
		}
	}
	return "", ErrSessionNotFound
}

// SetVisitToken sends the visit token via all members supporting it.
func (t *CompositeTransport) SetVisitToken(w http.ResponseWriter, token string) error {
	var lastErr error
	for _, transport := range t.transports {
		if vt, ok := transport.(VisitTransport); ok {
			if err := vt.SetVisitToken(w, token); err != nil {
				lastErr = err
			}
		}
	}
	return lastErr
}
