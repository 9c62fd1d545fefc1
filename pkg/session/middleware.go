package session

import (
	"errors"
	"net/http"
)

// Middleware applies the configured auto-start policy and stores the
// resulting session in the request context. Mutations made by the handler
// are persisted through the store once the handler returns.
//
// With AutoStartNever the middleware passes every request through untouched;
// session establishment is then the handler's job via Start.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var (
			sess *Session
			err  error
		)

		switch m.config.AutoStart {
		case AutoStartAlways:
			sess, err = m.Start(r.Context(), w, r)
		case AutoStartSmart:
			sess, err = m.Resume(r.Context(), w, r)
			if errors.Is(err, ErrSessionNotFound) || errors.Is(err, ErrSessionExpired) {
				sess, err = nil, nil
			}
		case AutoStartNever:
		}

		if err != nil {
			http.Error(w, "Session error", http.StatusInternalServerError)
			return
		}

		if sess == nil {
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))

		if err := m.Save(r.Context(), sess); err != nil {
			m.warn("saving session failed", err)
		}
	})
}

// EnsureSession is a middleware that establishes a session on every request
// regardless of the configured auto-start policy.
func (m *Manager) EnsureSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := m.Start(r.Context(), w, r)
		if err != nil {
			http.Error(w, "Session error", http.StatusInternalServerError)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))

		if err := m.Save(r.Context(), sess); err != nil {
			m.warn("saving session failed", err)
		}
	})
}
