package session

import (
	"fmt"
	"time"

	"github.com/sessionkit/sessionkit/pkg/config"
)

// AutoStart selects when the middleware establishes a session for a request.
type AutoStart string

const (
	// AutoStartAlways establishes a session on every request, creating one
	// when the client presents no usable token.
	AutoStartAlways AutoStart = "always"

	// AutoStartSmart resumes a session only when one already exists for the
	// incoming token; nothing is created for fresh clients until application
	// code writes to a section. Recommended default.
	AutoStartSmart AutoStart = "smart"

	// AutoStartNever leaves session establishment entirely to explicit
	// Start calls.
	AutoStartNever AutoStart = "never"
)

// Config holds session configuration
type Config struct {
	// CookieName is the name of the session cookie (default: "sid")
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"sid" yaml:"cookieName"`

	// VisitCookieName names the browser-session cookie used to detect the
	// end of a client's visit (default: "svid")
	VisitCookieName string `env:"SESSION_VISIT_COOKIE_NAME" envDefault:"svid" yaml:"visitCookieName"`

	// CookiePath and CookieDomain are forwarded to the cookie transport
	CookiePath   string `env:"SESSION_COOKIE_PATH" envDefault:"/" yaml:"cookiePath"`
	CookieDomain string `env:"SESSION_COOKIE_DOMAIN" envDefault:"" yaml:"cookieDomain"`

	// SecureCookies enables the Secure flag on session cookies (recommended for production)
	SecureCookies bool `env:"SESSION_SECURE_COOKIES" envDefault:"false" yaml:"secureCookies"`

	// Expiration is the overall session lifetime. Zero means the session
	// lasts until the client's visit ends and nothing durable is persisted
	// beyond it.
	Expiration config.Duration `env:"SESSION_EXPIRATION" envDefault:"0" yaml:"expiration"`

	// AutoStart selects the middleware start policy: always, smart or never
	AutoStart AutoStart `env:"SESSION_AUTO_START" envDefault:"smart" yaml:"autoStart"`

	// SavePath, when set, stores session blobs as files under this
	// directory instead of in memory
	SavePath string `env:"SESSION_SAVE_PATH" envDefault:"" yaml:"savePath"`

	// CleanupInterval for expired sessions in the memory store (0 to disable)
	CleanupInterval config.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"5m" yaml:"cleanupInterval"`

	// WarnOnUndefined makes reads of absent section variables return a
	// recoverable diagnostic instead of a silent nil
	WarnOnUndefined bool `env:"SESSION_WARN_ON_UNDEFINED" envDefault:"false" yaml:"warnOnUndefined"`
}

// DefaultConfig returns default session configuration
func DefaultConfig() Config {
	return Config{
		CookieName:      "sid",
		VisitCookieName: "svid",
		CookiePath:      "/",
		AutoStart:       AutoStartSmart,
		CleanupInterval: config.Duration(5 * time.Minute),
	}
}

// Validate checks configuration consistency.
func (c Config) Validate() error {
	switch c.AutoStart {
	case AutoStartAlways, AutoStartSmart, AutoStartNever:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidAutoStart, c.AutoStart)
	}
	if c.Expiration < 0 {
		return fmt.Errorf("%w: negative expiration %s", ErrInvalidConfig, c.Expiration.Std())
	}
	return nil
}

// NewFromConfig creates a new Manager from the provided Config.
// Cookie manager required for the default cookie transport.
func NewFromConfig(cfg Config, opts ...Option) *Manager {
	configOpts := []Option{
		WithConfig(cfg),
	}

	configOpts = append(configOpts, opts...)

	return New(configOpts...)
}
