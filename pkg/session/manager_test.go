package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sessionkit/sessionkit/pkg/config"
	"github.com/sessionkit/sessionkit/pkg/cookie"
	"github.com/sessionkit/sessionkit/pkg/session"
)

const testSecret = "test-secret-key-that-is-long-enough"

func testConfig() session.Config {
	return session.Config{
		CookieName:      "test-sid",
		VisitCookieName: "test-svid",
		CookiePath:      "/",
		AutoStart:       session.AutoStartSmart,
		Expiration:      config.Duration(24 * time.Hour),
	}
}

func setupManager(t *testing.T, opts ...session.Option) *session.Manager {
	t.Helper()

	cookieMgr, err := cookie.New([]string{testSecret})
	require.NoError(t, err)

	base := []session.Option{
		session.WithCookieManager(cookieMgr),
		session.WithConfig(testConfig()),
	}
	m := session.New(append(base, opts...)...)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

// carry copies the response's cookies onto a fresh request, simulating the
// client's next visit to the server. Cookies named in drop are withheld,
// which is how tests simulate a closed browser discarding session cookies.
func carry(w *httptest.ResponseRecorder, drop ...string) *http.Request {
	r := httptest.NewRequest("GET", "/", nil)
	for _, c := range w.Result().Cookies() {
		skip := false
		for _, name := range drop {
			if c.Name == name {
				skip = true
			}
		}
		if !skip && c.MaxAge >= 0 {
			r.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
		}
	}
	return r
}

func TestManager_Start(t *testing.T) {
	manager := setupManager(t)
	ctx := context.Background()

	t.Run("creates new session with both cookies", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/", nil)

		sess, err := manager.Start(ctx, w, r)
		require.NoError(t, err)
		assert.NotEmpty(t, sess.Token)
		assert.NotEmpty(t, sess.VisitID)

		names := make(map[string]*http.Cookie)
		for _, c := range w.Result().Cookies() {
			names[c.Name] = c
		}
		require.Contains(t, names, "test-sid")
		require.Contains(t, names, "test-svid")
		assert.Positive(t, names["test-sid"].MaxAge, "durable session cookie carries Max-Age")
		assert.Zero(t, names["test-svid"].MaxAge, "visit cookie dies with the browser")
	})

	t.Run("resumes existing session", func(t *testing.T) {
		w1 := httptest.NewRecorder()
		sess1, err := manager.Start(ctx, w1, httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		sess1.Section("auth").Set("user", "alice")
		require.NoError(t, manager.Save(ctx, sess1))

		w2 := httptest.NewRecorder()
		sess2, err := manager.Start(ctx, w2, carry(w1))
		require.NoError(t, err)

		assert.Equal(t, sess1.ID, sess2.ID)
		val, err := sess2.Section("auth").Get("user")
		assert.NoError(t, err)
		assert.Equal(t, "alice", val)
	})

	t.Run("idempotent within a request", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/", nil)

		sess1, err := manager.Start(ctx, w, r)
		require.NoError(t, err)

		r = r.WithContext(session.WithSession(r.Context(), sess1))
		sess2, err := manager.Start(ctx, w, r)
		require.NoError(t, err)
		assert.Same(t, sess1, sess2)
	})

	t.Run("tampered token falls back to a fresh session", func(t *testing.T) {
		w1 := httptest.NewRecorder()
		sess1, err := manager.Start(ctx, w1, httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)

		r := httptest.NewRequest("GET", "/", nil)
		r.AddCookie(&http.Cookie{Name: "test-sid", Value: "forged"})

		w2 := httptest.NewRecorder()
		sess2, err := manager.Start(ctx, w2, r)
		require.NoError(t, err)
		assert.NotEqual(t, sess1.ID, sess2.ID)
	})
}

func TestManager_Configure(t *testing.T) {
	t.Run("before start", func(t *testing.T) {
		manager := setupManager(t)
		assert.NoError(t, manager.Configure(session.WithExpiration(time.Hour)))
	})

	t.Run("after start is rejected", func(t *testing.T) {
		manager := setupManager(t)
		w := httptest.NewRecorder()
		_, err := manager.Start(context.Background(), w, httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)

		err = manager.Configure(session.WithExpiration(time.Hour))
		assert.ErrorIs(t, err, session.ErrAlreadyStarted)
	})

	t.Run("invalid auto-start mode", func(t *testing.T) {
		manager := setupManager(t)
		err := manager.Configure(session.WithAutoStart(session.AutoStart("sometimes")))
		assert.ErrorIs(t, err, session.ErrInvalidAutoStart)
	})

	t.Run("rejected call leaves configuration intact", func(t *testing.T) {
		manager := setupManager(t)

		err := manager.Configure(session.WithAutoStart(session.AutoStart("sometimes")))
		require.ErrorIs(t, err, session.ErrInvalidAutoStart)

		var sawSession bool
		h := manager.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, sawSession = session.FromContext(r.Context())
		}))

		w1 := httptest.NewRecorder()
		_, err = manager.Start(context.Background(), w1, httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)

		w2 := httptest.NewRecorder()
		h.ServeHTTP(w2, carry(w1))
		assert.True(t, sawSession, "smart policy must survive a rejected Configure call")
	})
}

func TestManager_GetSection(t *testing.T) {
	ctx := context.Background()

	t.Run("starts session under smart policy", func(t *testing.T) {
		manager := setupManager(t)
		w := httptest.NewRecorder()

		sec, err := manager.GetSection(ctx, w, httptest.NewRequest("GET", "/", nil), "cart")
		require.NoError(t, err)
		sec.Set("items", 3)

		val, err := sec.Get("items")
		assert.NoError(t, err)
		assert.Equal(t, 3, val)
	})

	t.Run("never policy requires explicit start", func(t *testing.T) {
		manager := setupManager(t, session.WithAutoStart(session.AutoStartNever))
		w := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/", nil)

		_, err := manager.GetSection(ctx, w, r, "cart")
		assert.ErrorIs(t, err, session.ErrSessionNotFound)

		sess, err := manager.Start(ctx, w, r)
		require.NoError(t, err)
		r = r.WithContext(session.WithSession(r.Context(), sess))

		sec, err := manager.GetSection(ctx, w, r, "cart")
		require.NoError(t, err)
		assert.NotNil(t, sec)
	})
}

func TestManager_HasSection(t *testing.T) {
	manager := setupManager(t)
	ctx := context.Background()

	w1 := httptest.NewRecorder()
	r1 := httptest.NewRequest("GET", "/", nil)
	assert.False(t, manager.HasSection(ctx, w1, r1, "auth"), "no session yet")

	sess, err := manager.Start(ctx, w1, r1)
	require.NoError(t, err)
	sess.Section("auth").Set("user", "alice")
	require.NoError(t, manager.Save(ctx, sess))

	w2 := httptest.NewRecorder()
	assert.True(t, manager.HasSection(ctx, w2, carry(w1), "auth"))
	assert.False(t, manager.HasSection(ctx, w2, carry(w1), "cart"))
}

func TestManager_Destroy(t *testing.T) {
	manager := setupManager(t)
	ctx := context.Background()

	w1 := httptest.NewRecorder()
	sess, err := manager.Start(ctx, w1, httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)

	w2 := httptest.NewRecorder()
	require.NoError(t, manager.Destroy(ctx, w2, carry(w1)))

	// The old token no longer resumes anything
	w3 := httptest.NewRecorder()
	sess2, err := manager.Start(ctx, w3, carry(w1))
	require.NoError(t, err)
	assert.NotEqual(t, sess.ID, sess2.ID)
}

func TestManager_RegenerateToken(t *testing.T) {
	manager := setupManager(t)
	ctx := context.Background()

	w1 := httptest.NewRecorder()
	sess, err := manager.Start(ctx, w1, httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	sess.Section("auth").Set("user", "alice")
	oldToken := sess.Token

	w2 := httptest.NewRecorder()
	require.NoError(t, manager.RegenerateToken(ctx, w2, sess))
	assert.NotEqual(t, oldToken, sess.Token)

	// New token resumes with data intact
	w3 := httptest.NewRecorder()
	resumed, err := manager.Start(ctx, w3, carry(w2))
	require.NoError(t, err)
	assert.Equal(t, sess.ID, resumed.ID)
	val, err := resumed.Section("auth").Get("user")
	assert.NoError(t, err)
	assert.Equal(t, "alice", val)

	// Old token is dead
	w4 := httptest.NewRecorder()
	fresh, err := manager.Start(ctx, w4, carry(w1))
	require.NoError(t, err)
	assert.NotEqual(t, sess.ID, fresh.ID)
}

func TestManager_VisitScopedAcrossRequests(t *testing.T) {
	manager := setupManager(t)
	ctx := context.Background()

	// First request: store a durable and a visit-scoped variable
	w1 := httptest.NewRecorder()
	sess, err := manager.Start(ctx, w1, httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	sec := sess.Section("data")
	sec.Set("durable", "stays")
	sec.Set("transient", "goes")
	require.NoError(t, sec.SetExpiration(0, "transient"))
	require.NoError(t, manager.Save(ctx, sess))

	// Second request in the same visit: both variables observable
	w2 := httptest.NewRecorder()
	sess2, err := manager.Start(ctx, w2, carry(w1))
	require.NoError(t, err)
	val, err := sess2.Section("data").Get("transient")
	assert.NoError(t, err)
	assert.Equal(t, "goes", val)

	// Browser closed: the visit cookie is gone, the session cookie survives
	w3 := httptest.NewRecorder()
	sess3, err := manager.Start(ctx, w3, carry(w1, "test-svid"))
	require.NoError(t, err)
	assert.Equal(t, sess.ID, sess3.ID, "the durable session resumes")

	val, err = sess3.Section("data").Get("transient")
	assert.NoError(t, err)
	assert.Nil(t, val, "visit-scoped variable dies with the visit")

	val, err = sess3.Section("data").Get("durable")
	assert.NoError(t, err)
	assert.Equal(t, "stays", val)
}

func TestNew_Panics(t *testing.T) {
	t.Run("missing cookie manager", func(t *testing.T) {
		assert.Panics(t, func() { session.New() })
	})

	t.Run("invalid auto-start", func(t *testing.T) {
		cookieMgr, err := cookie.New([]string{testSecret})
		require.NoError(t, err)

		cfg := testConfig()
		cfg.AutoStart = session.AutoStart("bogus")

		assert.Panics(t, func() {
			session.New(session.WithCookieManager(cookieMgr), session.WithConfig(cfg))
		})
	})
}
