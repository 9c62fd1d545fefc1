package session

import (
	"fmt"
	"iter"
	"log/slog"
	"slices"
	"time"
)

// Expiry describes when a variable or section stops being visible.
// A non-zero Deadline is an absolute wall-clock bound checked lazily on
// access. Visit marks the entry as visit-scoped: it survives requests but is
// purged as soon as a new browser visit begins. The zero Expiry means "no
// override" and defers to the next level up (section, then session).
type Expiry struct {
	Deadline time.Time `json:"deadline,omitzero"`
	Visit    bool      `json:"visit,omitempty"`
}

// Section is a namespaced partition of a session's storage. Variables in one
// section are invisible to every other section, so independent application
// components can use the same key names without collisions.
//
// A Section performs no locking: per the session model, at most one request
// mutates a given session snapshot at a time.
type Section struct {
	Name            string            `json:"name"`
	Values          map[string]any    `json:"values,omitempty"`
	Meta            map[string]Expiry `json:"meta,omitempty"`
	Lifetime        Expiry            `json:"lifetime,omitzero"`
	WarnOnUndefined bool              `json:"warn_on_undefined,omitempty"`

	owner  *Session
	logger *slog.Logger
}

func newSection(owner *Session, name string, warnOnUndefined bool) *Section {
	return &Section{
		Name:            name,
		Values:          make(map[string]any),
		Meta:            make(map[string]Expiry),
		WarnOnUndefined: warnOnUndefined,
		owner:           owner,
	}
}

// attach restores the unexported backrefs after deserialization.
func (s *Section) attach(owner *Session) {
	s.owner = owner
	if s.Values == nil {
		s.Values = make(map[string]any)
	}
	if s.Meta == nil {
		s.Meta = make(map[string]Expiry)
	}
}

func (s *Section) sessionDeadline() time.Time {
	if s.owner == nil {
		return time.Time{}
	}
	return s.owner.ExpiresAt
}

// effectiveDeadline returns the earliest of the per-key, section-level and
// session-level deadlines that are actually set. The zero time means the
// variable lives until the client's visit ends.
func (s *Section) effectiveDeadline(key string) time.Time {
	deadline := s.Meta[key].Deadline
	for _, d := range []time.Time{s.Lifetime.Deadline, s.sessionDeadline()} {
		if d.IsZero() {
			continue
		}
		if deadline.IsZero() || d.Before(deadline) {
			deadline = d
		}
	}
	return deadline
}

// lapsed reports whether the section-level deadline has passed.
func (s *Section) lapsed(now time.Time) bool {
	return !s.Lifetime.Deadline.IsZero() && now.After(s.Lifetime.Deadline)
}

func (s *Section) expired(key string, now time.Time) bool {
	d := s.effectiveDeadline(key)
	return !d.IsZero() && now.After(d)
}

// prune drops the key if its effective deadline has passed.
func (s *Section) prune(key string, now time.Time) {
	if s.expired(key, now) {
		delete(s.Values, key)
		delete(s.Meta, key)
	}
}

// Get returns the value stored under key. An absent key (never set, unset,
// or lazily expired) yields (nil, nil) by default. With WarnOnUndefined
// enabled the same read returns ErrUndefinedVariable instead — a recoverable
// diagnostic, never fatal.
func (s *Section) Get(key string) (any, error) {
	s.prune(key, time.Now())

	val, ok := s.Values[key]
	if ok {
		return val, nil
	}
	if s.WarnOnUndefined {
		if s.logger != nil {
			s.logger.Warn("read of undefined session variable",
				slog.String("section", s.Name),
				slog.String("key", key),
			)
		}
		return nil, fmt.Errorf("%w: %q in section %q", ErrUndefinedVariable, key, s.Name)
	}
	return nil, nil
}

// Has reports whether key currently holds a non-expired value.
func (s *Section) Has(key string) bool {
	s.prune(key, time.Now())
	_, ok := s.Values[key]
	return ok
}

// GetString retrieves a string value from the section
func (s *Section) GetString(key string) (string, bool) {
	val, _ := s.Get(key)
	str, ok := val.(string)
	return str, ok
}

// GetInt retrieves an int value from the section
func (s *Section) GetInt(key string) (int, bool) {
	val, _ := s.Get(key)
	switch v := val.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// GetBool retrieves a bool value from the section
func (s *Section) GetBool(key string) (bool, bool) {
	val, _ := s.Get(key)
	b, ok := val.(bool)
	return b, ok
}

// Set stores value under key, creating or overwriting it. An expiration
// previously set for the key is sticky across overwrites; clear it with
// RemoveExpiration or Unset. Expired leftovers are dropped first so a stale
// deadline never kills the fresh value.
func (s *Section) Set(key string, value any) {
	s.prune(key, time.Now())
	if s.Values == nil {
		s.Values = make(map[string]any)
	}
	s.Values[key] = value
}

// Unset removes key and its per-key expiration immediately.
func (s *Section) Unset(key string) {
	delete(s.Values, key)
	delete(s.Meta, key)
}

// SetExpiration sets a relative expiration for the given keys, or for the
// whole section when no keys are given. The sentinel ttl 0 makes the data
// visit-scoped: it is not bound to a deadline but disappears when the
// client's visit ends. A ttl reaching past the session-level deadline is
// clamped to it and reported via ErrExpirationExceedsSession.
func (s *Section) SetExpiration(ttl time.Duration, keys ...string) error {
	if ttl == 0 {
		return s.setExpiry(Expiry{Visit: true}, keys)
	}
	return s.setExpiry(Expiry{Deadline: time.Now().Add(ttl)}, keys)
}

// SetExpirationAt sets an absolute expiration for the given keys, or for the
// whole section when no keys are given. Deadlines past the session-level
// bound are clamped, reported via ErrExpirationExceedsSession.
func (s *Section) SetExpirationAt(t time.Time, keys ...string) error {
	return s.setExpiry(Expiry{Deadline: t}, keys)
}

func (s *Section) setExpiry(exp Expiry, keys []string) error {
	var err error
	if !exp.Deadline.IsZero() {
		if bound := s.sessionDeadline(); !bound.IsZero() && exp.Deadline.After(bound) {
			err = fmt.Errorf("%w: requested %s, session ends %s",
				ErrExpirationExceedsSession,
				exp.Deadline.Format(time.RFC3339),
				bound.Format(time.RFC3339),
			)
			exp.Deadline = bound
		}
	}

	if len(keys) == 0 {
		s.Lifetime = exp
		return err
	}

	if s.Meta == nil {
		s.Meta = make(map[string]Expiry)
	}
	for _, key := range keys {
		s.Meta[key] = exp
	}
	return err
}

// RemoveExpiration clears a previously set expiration for the given keys, or
// the section-wide one when no keys are given, reverting to the session-level
// default.
func (s *Section) RemoveExpiration(keys ...string) {
	if len(keys) == 0 {
		s.Lifetime = Expiry{}
		return
	}
	for _, key := range keys {
		delete(s.Meta, key)
	}
}

// Remove deletes the section and all its variables immediately, independent
// of any expiration.
func (s *Section) Remove() {
	if s.owner != nil {
		s.owner.RemoveSection(s.Name)
	}
	s.Values = make(map[string]any)
	s.Meta = make(map[string]Expiry)
	s.Lifetime = Expiry{}
}

// Keys returns the sorted names of all non-expired variables.
func (s *Section) Keys() []string {
	now := time.Now()
	keys := make([]string, 0, len(s.Values))
	for key := range s.Values {
		if s.expired(key, now) {
			delete(s.Values, key)
			delete(s.Meta, key)
			continue
		}
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

// Len returns the number of non-expired variables.
func (s *Section) Len() int {
	return len(s.Keys())
}

// All returns a restartable iterator over (key, value) pairs. Membership is
// snapshotted when iteration starts; the ordering effect of mutating the
// section while iterating is undefined.
func (s *Section) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, key := range s.Keys() {
			val, ok := s.Values[key]
			if !ok {
				continue
			}
			if !yield(key, val) {
				return
			}
		}
	}
}

// purgeVisit removes visit-scoped data when a new browser visit begins.
// It reports whether the whole section became visit-scoped garbage.
func (s *Section) purgeVisit() bool {
	if s.Lifetime.Visit {
		return true
	}
	for key, meta := range s.Meta {
		if meta.Visit {
			delete(s.Values, key)
			delete(s.Meta, key)
		}
	}
	return false
}
