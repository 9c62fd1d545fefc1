package session

import (
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Session is the server-side storage scoped to one client, addressed by an
// opaque token carried over the transport. Its variables live in named
// Sections obtained through the Section accessor; the session itself holds
// no loose variables.
//
// A zero ExpiresAt means the session has no durable deadline and lasts until
// the client's visit ends (the transport cookie is then a browser-session
// cookie).
type Session struct {
	ID             uuid.UUID           `json:"id"`
	Token          string              `json:"token"`
	VisitID        string              `json:"visit_id,omitempty"`
	Sections       map[string]*Section `json:"sections,omitempty"`
	ExpiresAt      time.Time           `json:"expires_at,omitzero"`
	CreatedAt      time.Time           `json:"created_at"`
	LastActivityAt time.Time           `json:"last_activity_at"`

	warnOnUndefined bool
	logger          *slog.Logger
}

// NewSession creates a new session with the given token and visit ID.
// A ttl of 0 leaves the session without a durable deadline.
func NewSession(token, visitID string, ttl time.Duration) *Session {
	now := time.Now()
	s := &Session{
		ID:             uuid.New(),
		Token:          token,
		VisitID:        visitID,
		Sections:       make(map[string]*Section),
		CreatedAt:      now,
		LastActivityAt: now,
	}
	if ttl > 0 {
		s.ExpiresAt = now.Add(ttl)
	}
	return s
}

// attach restores unexported state after deserialization or cloning.
func (s *Session) attach(logger *slog.Logger, warnOnUndefined bool) {
	s.logger = logger
	s.warnOnUndefined = warnOnUndefined
	if s.Sections == nil {
		s.Sections = make(map[string]*Section)
	}
	for name, sec := range s.Sections {
		if sec.Name == "" {
			sec.Name = name
		}
		sec.attach(s)
		sec.logger = logger
	}
}

// IsExpired returns true if the session has passed its durable deadline.
func (s *Session) IsExpired() bool {
	return s != nil && !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// Touch updates the last activity time
func (s *Session) Touch() {
	if s == nil {
		return
	}
	s.LastActivityAt = time.Now()
}

// Section returns the section with the given name, creating an empty one on
// first access. The same name always yields the same section within a
// session; sections with different names never share variables. An expired
// section is replaced by a fresh empty one.
//
// The name must not be empty; an empty name panics.
func (s *Session) Section(name string) *Section {
	if name == "" {
		panic("session: section name must not be empty")
	}
	if s.Sections == nil {
		s.Sections = make(map[string]*Section)
	}
	if sec, ok := s.Sections[name]; ok {
		if !sec.lapsed(time.Now()) {
			return sec
		}
		delete(s.Sections, name)
	}
	sec := newSection(s, name, s.warnOnUndefined)
	sec.logger = s.logger
	s.Sections[name] = sec
	return sec
}

// HasSection reports whether a section with that name currently exists and
// has not expired. Unlike Section it never creates one.
func (s *Session) HasSection(name string) bool {
	sec, ok := s.Sections[name]
	if !ok {
		return false
	}
	if sec.lapsed(time.Now()) {
		delete(s.Sections, name)
		return false
	}
	return true
}

// RemoveSection deletes the named section and all its variables immediately,
// independent of any expiration.
func (s *Session) RemoveSection(name string) {
	delete(s.Sections, name)
}

// SectionNames returns the sorted names of all non-expired sections.
func (s *Session) SectionNames() []string {
	now := time.Now()
	names := make([]string, 0, len(s.Sections))
	for name, sec := range s.Sections {
		if sec.lapsed(now) {
			delete(s.Sections, name)
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// BeginVisit records a new browser visit and purges everything that was
// scoped to the previous one (expiration set with the 0 sentinel).
func (s *Session) BeginVisit(visitID string) {
	for name, sec := range s.Sections {
		if sec.purgeVisit() {
			delete(s.Sections, name)
		}
	}
	s.VisitID = visitID
}

// Clone returns a deep copy of the session. Stores hand out clones so a
// snapshot mutated by one request never aliases the stored record.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	clone := *s
	clone.Sections = make(map[string]*Section, len(s.Sections))
	for name, sec := range s.Sections {
		secCopy := *sec
		secCopy.Values = make(map[string]any, len(sec.Values))
		maps.Copy(secCopy.Values, sec.Values)
		secCopy.Meta = make(map[string]Expiry, len(sec.Meta))
		maps.Copy(secCopy.Meta, sec.Meta)
		secCopy.owner = &clone
		clone.Sections[name] = &secCopy
	}
	return &clone
}
