// Package session provides an HTTP session subsystem with namespaced
// sections. A session's storage is partitioned into named Sections so that
// independent application components can keep variables under the same key
// names without ever colliding. Sections support per-variable and
// section-wide expiration on top of the overall session lifetime, including
// a "visit-scoped" mode where data disappears as soon as the client's
// browser visit ends.
//
// The package is storage-agnostic: any datastore satisfying the Store
// interface can be plugged in. Memory, file and Redis implementations ship
// out of the box. Session tokens travel through the Transport interface,
// with cookie, header and composite implementations provided.
//
// # Architecture
//
// A Manager orchestrates the session life-cycle. It relies on a Transport
// to extract / set the session token on every request and on a Store to
// persist session state. Sections hang off the Session snapshot and are
// pure in-memory maps; expiration is evaluated lazily on access.
//
//	┌────────┐   token   ┌────────────┐
//	│ Client │ ────────► │  Transport │
//	└────────┘           └────────────┘
//	       ▲                   │
//	       │                   ▼
//	┌─────────────────────────────────┐
//	│            Manager              │
//	└──────────────┬──────────────────┘
//	       │       │  Session ── Section "auth"
//	       ▼       │          └─ Section "cart"
//	┌────────┐     ▼
//	│ Store  │ (memory, file, redis)
//	└────────┘
//
// # Usage
//
//	cookieMgr, _ := cookie.New([]string{"secret-key-at-least-32-chars-long"})
//	manager := session.New(
//	    session.WithCookieManager(cookieMgr),
//	    session.WithExpiration(14*24*time.Hour),
//	)
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    sess, _ := manager.Start(r.Context(), w, r)
//
//	    cart := sess.Section("cart")
//	    cart.Set("items", 3)
//	    _ = cart.SetExpiration(20*time.Minute, "items")
//
//	    _ = manager.Save(r.Context(), sess)
//	}
//
// Under the Middleware the session is resumed or created according to the
// auto-start policy and saved automatically after the handler runs:
//
//	mux := http.NewServeMux()
//	srv := manager.Middleware(mux)
//
// # Expiration model
//
// A variable is visible while the earliest of its per-key deadline, its
// section's deadline and the session's deadline has not passed. Deadlines
// reaching past the session's own deadline are clamped to it and reported
// via ErrExpirationExceedsSession. SetExpiration(0) marks data as
// visit-scoped: it carries no deadline but is purged when the client's
// visit ends, detected through a browser-session visit cookie.
//
// # Error Handling
//
// Common error values returned by the package:
//
//   - ErrSessionNotFound           – no session associated with token
//   - ErrSessionExpired            – session has passed its deadline
//   - ErrAlreadyStarted            – configuration attempted after start
//   - ErrUndefinedVariable         – opt-in diagnostic for absent variables
//   - ErrExpirationExceedsSession  – requested deadline was clamped
//
// # Configuration
//
// Most knobs are exposed via Option functions (e.g. WithExpiration) or by
// passing a Config struct to NewFromConfig. Twelve-factor applications can
// populate the same fields from environment variables, and the yaml tags
// support loading from a configuration file.
package session
