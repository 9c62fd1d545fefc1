package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/sessionkit/sessionkit/pkg/cookie"
)

const (
	tokenLength      = 32
	visitTokenLength = 16
)

// Manager handles the session lifecycle: it establishes or resumes sessions
// through a Transport, persists them through a Store and hands out Section
// access. Configuration is fixed once the first session has started.
type Manager struct {
	store         Store
	transport     Transport
	config        Config
	codec         Codec
	logger        *slog.Logger
	cookieManager *cookie.Manager
	cookieOptions []cookie.Option
	started       atomic.Bool
}

// New creates a new session manager with the given options
func New(opts ...Option) *Manager {
	m := &Manager{
		config: DefaultConfig(),
		codec:  JSON,
	}

	for _, opt := range opts {
		opt(m)
	}

	if err := m.config.Validate(); err != nil {
		// Fail fast on misconfiguration to prevent insecure runtime behavior
		panic("session: " + err.Error())
	}

	if m.store == nil {
		if m.config.SavePath != "" {
			store, err := NewFileStore(m.config.SavePath, m.codec)
			if err != nil {
				panic("session: save path unusable: " + err.Error())
			}
			m.store = store
		} else {
			m.store = NewMemoryStore(m.config.CleanupInterval.Std())
		}
	}

	if m.transport == nil {
		if m.cookieManager == nil {
			panic("session: cookie manager is required when using default cookie transport")
		}
		m.transport = NewCookieTransport(m.cookieManager, m.config, m.cookieOptions...)
	}

	return m
}

// Configure applies options to a manager that has not started any session
// yet. Once a session has been started the configuration is frozen and
// Configure returns ErrAlreadyStarted. Options are staged and validated
// before anything is committed, so a failed call leaves the manager exactly
// as it was.
func (m *Manager) Configure(opts ...Option) error {
	if m.started.Load() {
		return ErrAlreadyStarted
	}

	staged := &Manager{
		store:         m.store,
		transport:     m.transport,
		config:        m.config,
		codec:         m.codec,
		logger:        m.logger,
		cookieManager: m.cookieManager,
		cookieOptions: m.cookieOptions,
	}
	for _, opt := range opts {
		opt(staged)
	}
	if err := staged.config.Validate(); err != nil {
		return err
	}

	m.store = staged.store
	m.transport = staged.transport
	m.config = staged.config
	m.codec = staged.codec
	m.logger = staged.logger
	m.cookieManager = staged.cookieManager
	m.cookieOptions = staged.cookieOptions
	return nil
}

// Start establishes or resumes the session identified by the
// transport-supplied token. It is idempotent: starting an already started
// session returns the same handle with no additional effect.
func (m *Manager) Start(ctx context.Context, w http.ResponseWriter, r *http.Request) (*Session, error) {
	if sess, ok := FromContext(r.Context()); ok {
		return sess, nil
	}

	sess, err := m.Resume(ctx, w, r)
	if err == nil {
		return sess, nil
	}
	if !errors.Is(err, ErrSessionNotFound) && !errors.Is(err, ErrSessionExpired) {
		return nil, err
	}

	return m.create(ctx, w, r)
}

// Resume returns the existing session for the incoming token, or
// ErrSessionNotFound / ErrSessionExpired without creating anything. This is
// the "smart" half of the auto-start policy.
func (m *Manager) Resume(ctx context.Context, w http.ResponseWriter, r *http.Request) (*Session, error) {
	if m.transport == nil {
		return nil, ErrNoTransport
	}
	if sess, ok := FromContext(r.Context()); ok {
		return sess, nil
	}

	token, err := m.transport.GetToken(r)
	if err != nil {
		return nil, err
	}

	sess, err := m.store.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	sess.attach(m.logger, m.config.WarnOnUndefined)

	m.started.Store(true)
	m.checkVisit(ctx, w, r, sess)
	sess.Touch()

	return sess, nil
}

// GetSection returns the named section of the request's session, starting
// the session as the auto-start policy allows. Under the "never" policy the
// session must have been started explicitly beforehand.
func (m *Manager) GetSection(ctx context.Context, w http.ResponseWriter, r *http.Request, name string) (*Section, error) {
	if m.config.AutoStart == AutoStartNever {
		sess, ok := FromContext(r.Context())
		if !ok {
			return nil, fmt.Errorf("%w: explicit Start required under auto-start %q", ErrSessionNotFound, AutoStartNever)
		}
		return sess.Section(name), nil
	}

	sess, err := m.Start(ctx, w, r)
	if err != nil {
		return nil, err
	}
	return sess.Section(name), nil
}

// HasSection reports whether the request's session exists and carries a
// non-expired section with that name. It never creates a session.
func (m *Manager) HasSection(ctx context.Context, w http.ResponseWriter, r *http.Request, name string) bool {
	sess, err := m.Resume(ctx, w, r)
	if err != nil {
		return false
	}
	return sess.HasSection(name)
}

// Save persists the mutated session snapshot through the store.
func (m *Manager) Save(ctx context.Context, sess *Session) error {
	if sess == nil {
		return ErrInvalidSession
	}
	sess.Touch()
	return m.store.Update(ctx, sess)
}

// Destroy deletes the session and clears its token
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	token, err := m.transport.GetToken(r)
	if err == nil && token != "" {
		_ = m.store.Delete(ctx, token)
	}

	return m.transport.ClearToken(w)
}

// RegenerateToken replaces the session token, deleting the record stored
// under the old one. Call after privilege changes to prevent fixation.
func (m *Manager) RegenerateToken(ctx context.Context, w http.ResponseWriter, sess *Session) error {
	newToken, err := generateToken(tokenLength)
	if err != nil {
		return err
	}

	_ = m.store.Delete(ctx, sess.Token)
	sess.Token = newToken

	if err := m.store.Create(ctx, sess); err != nil {
		return err
	}
	return m.transport.SetToken(w, newToken, m.config.Expiration.Std())
}

// Close releases store resources such as cleanup goroutines.
func (m *Manager) Close() error {
	if c, ok := m.store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// checkVisit compares the transport's visit token with the one recorded in
// the session. A missing or different token means the client's previous
// visit ended, so visit-scoped data is purged and a new visit begins.
func (m *Manager) checkVisit(ctx context.Context, w http.ResponseWriter, r *http.Request, sess *Session) {
	vt, ok := m.transport.(VisitTransport)
	if !ok {
		return
	}

	visitID, err := vt.GetVisitToken(r)
	if err == nil && visitID != "" && visitID == sess.VisitID {
		return
	}

	newID, err := generateToken(visitTokenLength)
	if err != nil {
		m.warn("visit token generation failed", err)
		return
	}

	sess.BeginVisit(newID)

	if err := vt.SetVisitToken(w, newID); err != nil {
		m.warn("setting visit token failed", err)
	}
	if err := m.store.Update(ctx, sess); err != nil {
		m.warn("persisting visit purge failed", err)
	}
}

// create builds a fresh session and announces its tokens on the response.
func (m *Manager) create(ctx context.Context, w http.ResponseWriter, r *http.Request) (*Session, error) {
	token, err := generateToken(tokenLength)
	if err != nil {
		return nil, err
	}

	var visitID string
	vt, hasVisit := m.transport.(VisitTransport)
	if hasVisit {
		if v, err := vt.GetVisitToken(r); err == nil {
			visitID = v
		}
	}
	if visitID == "" {
		visitID, err = generateToken(visitTokenLength)
		if err != nil {
			return nil, err
		}
	}

	sess := NewSession(token, visitID, m.config.Expiration.Std())
	sess.attach(m.logger, m.config.WarnOnUndefined)

	if err := m.store.Create(ctx, sess); err != nil {
		return nil, err
	}

	if err := m.transport.SetToken(w, token, m.config.Expiration.Std()); err != nil {
		_ = m.store.Delete(ctx, token)
		return nil, err
	}
	if hasVisit {
		if err := vt.SetVisitToken(w, visitID); err != nil {
			m.warn("setting visit token failed", err)
		}
	}

	m.started.Store(true)
	return sess, nil
}

func (m *Manager) warn(msg string, err error) {
	if m.logger != nil {
		m.logger.Warn(msg, slog.Any("error", err))
	}
}

// generateToken creates a cryptographically secure token
func generateToken(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
