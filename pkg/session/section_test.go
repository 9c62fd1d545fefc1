package session_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sessionkit/sessionkit/pkg/session"
)

func TestSection_Isolation(t *testing.T) {
	sess := session.NewSession("token", "visit", time.Hour)

	a := sess.Section("a")
	b := sess.Section("b")

	a.Set("k", "from-a")

	val, err := b.Get("k")
	assert.NoError(t, err)
	assert.Nil(t, val, "sections with different names must never share variables")

	val, err = a.Get("k")
	assert.NoError(t, err)
	assert.Equal(t, "from-a", val)
}

func TestSection_RoundTrip(t *testing.T) {
	sess := session.NewSession("token", "visit", time.Hour)
	sec := sess.Section("data")

	tests := []struct {
		name  string
		value any
	}{
		{name: "string", value: "hello"},
		{name: "int", value: 42},
		{name: "bool", value: true},
		{name: "slice", value: []string{"a", "b"}},
		{name: "nil value", value: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sec.Set(tt.name, tt.value)
			val, err := sec.Get(tt.name)
			assert.NoError(t, err)
			assert.Equal(t, tt.value, val)
		})
	}
}

func TestSection_UndefinedVariable(t *testing.T) {
	sess := session.NewSession("token", "visit", time.Hour)

	t.Run("silent nil by default", func(t *testing.T) {
		sec := sess.Section("quiet")
		val, err := sec.Get("missing")
		assert.NoError(t, err)
		assert.Nil(t, val)
	})

	t.Run("diagnostic when enabled", func(t *testing.T) {
		sec := sess.Section("strict")
		sec.WarnOnUndefined = true

		val, err := sec.Get("missing")
		assert.ErrorIs(t, err, session.ErrUndefinedVariable)
		assert.Nil(t, val)

		// The diagnostic is recoverable: the section keeps working
		sec.Set("missing", 1)
		val, err = sec.Get("missing")
		assert.NoError(t, err)
		assert.Equal(t, 1, val)
	})

	t.Run("set key is defined even when nil", func(t *testing.T) {
		sec := sess.Section("strict2")
		sec.WarnOnUndefined = true

		sec.Set("null", nil)
		val, err := sec.Get("null")
		assert.NoError(t, err, "explicitly set nil is distinct from undefined")
		assert.Nil(t, val)
	})
}

func TestSection_Unset(t *testing.T) {
	sess := session.NewSession("token", "visit", time.Hour)
	sec := sess.Section("data")

	sec.Set("k", "v")
	require.NoError(t, sec.SetExpiration(time.Minute, "k"))

	sec.Unset("k")

	val, err := sec.Get("k")
	assert.NoError(t, err)
	assert.Nil(t, val)

	// The per-key expiration went with the key: a fresh value is unbounded
	sec.Set("k", "fresh")
	assert.True(t, sec.Has("k"))
}

func TestSection_TypedGetters(t *testing.T) {
	sess := session.NewSession("token", "visit", time.Hour)
	sec := sess.Section("data")

	sec.Set("s", "text")
	sec.Set("i", 7)
	sec.Set("f", float64(8)) // numbers decode as float64 after a JSON round trip
	sec.Set("b", true)

	s, ok := sec.GetString("s")
	assert.True(t, ok)
	assert.Equal(t, "text", s)

	i, ok := sec.GetInt("i")
	assert.True(t, ok)
	assert.Equal(t, 7, i)

	i, ok = sec.GetInt("f")
	assert.True(t, ok)
	assert.Equal(t, 8, i)

	b, ok := sec.GetBool("b")
	assert.True(t, ok)
	assert.True(t, b)

	_, ok = sec.GetString("missing")
	assert.False(t, ok)
}

func TestSection_ExpirationLazy(t *testing.T) {
	sess := session.NewSession("token", "visit", time.Hour)
	sec := sess.Section("data")

	sec.Set("gone", "v")
	require.NoError(t, sec.SetExpirationAt(time.Now().Add(-time.Second), "gone"))

	val, err := sec.Get("gone")
	assert.NoError(t, err)
	assert.Nil(t, val, "past deadline must read as absent on next access")
	assert.False(t, sec.Has("gone"))
}

func TestSection_ExpirationSticky(t *testing.T) {
	sess := session.NewSession("token", "visit", time.Hour)
	sec := sess.Section("data")

	sec.Set("k", "v1")
	require.NoError(t, sec.SetExpiration(time.Minute, "k"))

	// Overwriting the value must not clear the expiration
	sec.Set("k", "v2")

	val, err := sec.Get("k")
	assert.NoError(t, err)
	assert.Equal(t, "v2", val)
	assert.WithinDuration(t, time.Now().Add(time.Minute), sec.Meta["k"].Deadline, 2*time.Second)

	// Explicit removal reverts to the session-level default
	sec.RemoveExpiration("k")
	_, ok := sec.Meta["k"]
	assert.False(t, ok)
}

func TestSection_ExpirationClampedToSession(t *testing.T) {
	sess := session.NewSession("token", "visit", time.Hour)
	sec := sess.Section("data")
	sec.Set("k", "v")

	err := sec.SetExpiration(48*time.Hour, "k")
	assert.ErrorIs(t, err, session.ErrExpirationExceedsSession)

	// The stored deadline never exceeds the session's own
	assert.False(t, sec.Meta["k"].Deadline.After(sess.ExpiresAt))

	// Within the bound no error is reported
	assert.NoError(t, sec.SetExpiration(time.Minute, "k"))
}

func TestSection_SectionWideExpiration(t *testing.T) {
	sess := session.NewSession("token", "visit", time.Hour)
	sec := sess.Section("data")
	sec.Set("a", 1)
	sec.Set("b", 2)

	require.NoError(t, sec.SetExpirationAt(time.Now().Add(-time.Second)))

	val, err := sec.Get("a")
	assert.NoError(t, err)
	assert.Nil(t, val)
	assert.Empty(t, sec.Keys())

	// An expired section is replaced by a fresh empty one on access
	assert.False(t, sess.HasSection("data"))
	fresh := sess.Section("data")
	assert.Empty(t, fresh.Keys())
}

func TestSection_EffectiveDeadlineIsEarliest(t *testing.T) {
	sess := session.NewSession("token", "visit", time.Hour)
	sec := sess.Section("data")
	sec.Set("k", "v")

	// Section-wide deadline already passed; a generous per-key deadline
	// cannot resurrect the variable.
	require.NoError(t, sec.SetExpiration(30*time.Minute, "k"))
	require.NoError(t, sec.SetExpirationAt(time.Now().Add(-time.Second)))

	val, err := sec.Get("k")
	assert.NoError(t, err)
	assert.Nil(t, val)
}

func TestSection_Remove(t *testing.T) {
	sess := session.NewSession("token", "visit", time.Hour)
	sec := sess.Section("doomed")
	sec.Set("k", "v")
	require.NoError(t, sec.SetExpiration(30*time.Minute, "k"))

	sec.Remove()

	assert.False(t, sess.HasSection("doomed"), "removal is immediate, independent of expiration")
	val, err := sec.Get("k")
	assert.NoError(t, err)
	assert.Nil(t, val, "the held handle reads empty after removal")
}

func TestSection_Iteration(t *testing.T) {
	sess := session.NewSession("token", "visit", time.Hour)
	sec := sess.Section("data")
	sec.Set("b", 2)
	sec.Set("a", 1)
	sec.Set("c", 3)
	sec.Set("expired", 4)
	require.NoError(t, sec.SetExpirationAt(time.Now().Add(-time.Second), "expired"))

	collect := func() map[string]any {
		got := make(map[string]any)
		for k, v := range sec.All() {
			got[k] = v
		}
		return got
	}

	want := map[string]any{"a": 1, "b": 2, "c": 3}
	assert.Equal(t, want, collect())
	assert.Equal(t, want, collect(), "iteration is restartable")
	assert.Equal(t, []string{"a", "b", "c"}, sec.Keys())
	assert.Equal(t, 3, sec.Len())

	t.Run("early break", func(t *testing.T) {
		count := 0
		for range sec.All() {
			count++
			break
		}
		assert.Equal(t, 1, count)
	})
}

func TestSection_VisitScoped(t *testing.T) {
	sess := session.NewSession("token", "visit-1", 0)
	sec := sess.Section("data")

	sec.Set("durable", "stays")
	sec.Set("transient", "goes")
	require.NoError(t, sec.SetExpiration(0, "transient"))

	// Same visit: both visible
	val, err := sec.Get("transient")
	assert.NoError(t, err)
	assert.Equal(t, "goes", val)

	// New visit (browser closed): visit-scoped data purged
	sess.BeginVisit("visit-2")

	val, err = sec.Get("transient")
	assert.NoError(t, err)
	assert.Nil(t, val)

	val, err = sec.Get("durable")
	assert.NoError(t, err)
	assert.Equal(t, "stays", val)
}

func TestSection_VisitScopedSectionWide(t *testing.T) {
	sess := session.NewSession("token", "visit-1", 0)
	sec := sess.Section("flash")
	sec.Set("msg", "saved!")
	require.NoError(t, sec.SetExpiration(0))

	sess.BeginVisit("visit-2")

	assert.False(t, sess.HasSection("flash"))
}
