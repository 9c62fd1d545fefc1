package session

import (
	"context"
)

// Store defines the interface for session persistence. Implementations own
// cross-request mutual exclusion; Session and Section themselves take no
// locks. Get hands back an isolated snapshot: mutating it never affects the
// stored record until Update runs.
type Store interface {
	// Create stores a new session
	Create(ctx context.Context, session *Session) error

	// Get retrieves a session by token
	Get(ctx context.Context, token string) (*Session, error)

	// Update replaces the stored session snapshot
	Update(ctx context.Context, session *Session) error

	// Delete removes a session by token
	Delete(ctx context.Context, token string) error

	// DeleteExpired removes all expired sessions
	DeleteExpired(ctx context.Context) error
}
