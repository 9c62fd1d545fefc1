package session_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/sessionkit/sessionkit/pkg/session"
)

func BenchmarkSection_Get(b *testing.B) {
	sess := session.NewSession("token", "visit", time.Hour)
	sec := sess.Section("bench")
	sec.Set("key", "value")

	b.ResetTimer()
	for range b.N {
		_, _ = sec.Get("key")
	}
}

func BenchmarkSection_Set(b *testing.B) {
	sess := session.NewSession("token", "visit", time.Hour)
	sec := sess.Section("bench")

	b.ResetTimer()
	for i := range b.N {
		sec.Set("key", i)
	}
}

func BenchmarkSession_Clone(b *testing.B) {
	sess := session.NewSession("token", "visit", time.Hour)
	for i := range 10 {
		sec := sess.Section(fmt.Sprintf("section-%d", i))
		for j := range 10 {
			sec.Set(fmt.Sprintf("key-%d", j), j)
		}
	}

	b.ResetTimer()
	for range b.N {
		_ = sess.Clone()
	}
}
