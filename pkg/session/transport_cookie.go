package session

import (
	"net/http"
	"time"

	"github.com/sessionkit/sessionkit/pkg/cookie"
)

// CookieTransport implements Transport and VisitTransport using signed
// cookies. The session cookie carries the token with a Max-Age matching the
// session deadline; the visit cookie carries no Max-Age at all, so the
// browser discards it when the client's visit ends.
type CookieTransport struct {
	cookieMgr *cookie.Manager
	name      string
	visitName string
	path      string
	domain    string
	secure    bool
	options   []cookie.Option
}

// NewCookieTransport creates a cookie-based transport configured from cfg.
// Extra cookie options override the config-derived attributes.
func NewCookieTransport(cookieMgr *cookie.Manager, cfg Config, opts ...cookie.Option) *CookieTransport {
	return &CookieTransport{
		cookieMgr: cookieMgr,
		name:      cfg.CookieName,
		visitName: cfg.VisitCookieName,
		path:      cfg.CookiePath,
		domain:    cfg.CookieDomain,
		secure:    cfg.SecureCookies,
		options:   opts,
	}
}

func (t *CookieTransport) baseOptions(maxAge int) []cookie.Option {
	opts := []cookie.Option{
		cookie.WithMaxAge(maxAge),
		cookie.WithHTTPOnly(true),
		cookie.WithSameSite(http.SameSiteLaxMode), // CSRF protection
	}
	if t.path != "" {
		opts = append(opts, cookie.WithPath(t.path))
	}
	if t.domain != "" {
		opts = append(opts, cookie.WithDomain(t.domain))
	}
	if t.secure {
		opts = append(opts, cookie.WithSecure(true))
	}
	return append(opts, t.options...)
}

// GetToken extracts the session token from the cookie
func (t *CookieTransport) GetToken(r *http.Request) (string, error) {
	token, err := t.cookieMgr.GetSigned(r, t.name)
	if err != nil {
		return "", ErrSessionNotFound
	}
	return token, nil
}

// SetToken stores the session token in a cookie. With ttl 0 the cookie has
// no Max-Age and dies with the visit.
func (t *CookieTransport) SetToken(w http.ResponseWriter, token string, ttl time.Duration) error {
	maxAge := 0
	if ttl > 0 {
		maxAge = int(ttl.Seconds())
	}
	return t.cookieMgr.SetSigned(w, t.name, token, t.baseOptions(maxAge)...)
}

// ClearToken removes the session cookie and the visit cookie
func (t *CookieTransport) ClearToken(w http.ResponseWriter) error {
	t.cookieMgr.Delete(w, t.name)
	t.cookieMgr.Delete(w, t.visitName)
	return nil
}

// GetVisitToken extracts the visit token from the browser-session cookie.
func (t *CookieTransport) GetVisitToken(r *http.Request) (string, error) {
	token, err := t.cookieMgr.GetSigned(r, t.visitName)
	if err != nil {
		return "", ErrSessionNotFound
	}
	return token, nil
}

// SetVisitToken stores the visit token in a cookie without Max-Age.
func (t *CookieTransport) SetVisitToken(w http.ResponseWriter, token string) error {
	return t.cookieMgr.SetSigned(w, t.visitName, token, t.baseOptions(0)...)
}
