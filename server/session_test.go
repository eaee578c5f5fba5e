package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessions_Acquire(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	s := newSessions(time.Minute)
	s.now = func() time.Time { return now }

	a, created := s.acquire("")
	require.True(t, created)
	require.NotEmpty(t, a.id)

	a.params.Set("k", "v")

	now = now.Add(30 * time.Second)

	b, created := s.acquire(a.id)
	require.False(t, created)
	assert.Same(t, a, b)
	assert.Equal(t, now.Add(time.Minute), b.expires, "lifetime is extended on use")

	v, ok := b.params.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestSessions_Expiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	s := newSessions(time.Minute)
	s.now = func() time.Time { return now }

	a, _ := s.acquire("")
	b, _ := s.acquire("")
	require.Equal(t, 2, s.len())

	now = now.Add(2 * time.Minute)

	c, created := s.acquire(a.id)
	assert.True(t, created, "an expired session is replaced")
	assert.NotEqual(t, a.id, c.id)

	_, ok := c.params.Get("k")
	assert.False(t, ok)

	assert.Equal(t, 1, s.len(), "expired sessions are swept")

	_, created = s.acquire(b.id)
	assert.True(t, created)
}

func TestSessions_UniqueIDs(t *testing.T) {
	s := newSessions(time.Minute)

	seen := make(map[string]bool)

	for range 100 {
		e, created := s.acquire("")
		require.True(t, created)
		require.False(t, seen[e.id])

		seen[e.id] = true
	}
}
