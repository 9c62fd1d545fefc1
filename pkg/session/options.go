package session

import (
	"log/slog"
	"time"

	"github.com/sessionkit/sessionkit/pkg/config"
	"github.com/sessionkit/sessionkit/pkg/cookie"
)

// Option is a functional option for configuring the Manager
type Option func(*Manager)

// WithStore sets a custom session store
func WithStore(store Store) Option {
	return func(m *Manager) {
		m.store = store
	}
}

// WithTransport sets a custom session transport
func WithTransport(transport Transport) Option {
	return func(m *Manager) {
		m.transport = transport
	}
}

// WithConfig sets custom configuration
func WithConfig(config Config) Option {
	return func(m *Manager) {
		m.config = config
	}
}

// WithCodec sets the codec used to serialize session blobs in stores that
// need one (file, redis)
func WithCodec(codec Codec) Option {
	return func(m *Manager) {
		m.codec = codec
	}
}

// WithLogger sets the structured logger used for diagnostics
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithCookieName sets the session cookie name
func WithCookieName(name string) Option {
	return func(m *Manager) {
		m.config.CookieName = name
	}
}

// WithExpiration sets the overall session lifetime (0 = until the visit ends)
func WithExpiration(d time.Duration) Option {
	return func(m *Manager) {
		m.config.Expiration = config.Duration(d)
	}
}

// WithAutoStart sets the middleware start policy
func WithAutoStart(mode AutoStart) Option {
	return func(m *Manager) {
		m.config.AutoStart = mode
	}
}

// WithSavePath stores session blobs as files under dir
func WithSavePath(dir string) Option {
	return func(m *Manager) {
		m.config.SavePath = dir
	}
}

// WithCleanupInterval sets the cleanup interval for expired sessions
func WithCleanupInterval(interval time.Duration) Option {
	return func(m *Manager) {
		m.config.CleanupInterval = config.Duration(interval)
	}
}

// WithWarnOnUndefined toggles the undefined-variable diagnostic for new sections
func WithWarnOnUndefined(warn bool) Option {
	return func(m *Manager) {
		m.config.WarnOnUndefined = warn
	}
}

// WithCookieManager sets the cookie manager for the default cookie transport
func WithCookieManager(cookieMgr *cookie.Manager, opts ...cookie.Option) Option {
	return func(m *Manager) {
		m.cookieManager = cookieMgr
		m.cookieOptions = opts
	}
}
