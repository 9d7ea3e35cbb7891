package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestStore(t *testing.T) (*Store, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	return NewStore(0, 0, clock.now), clock
}

func TestCreateAssignsUniqueIDs(t *testing.T) {
	st, _ := newTestStore(t)
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		s := st.Create(&Session{Kind: KindEditor, ActorID: "a"})
		require.NotEmpty(t, s.ID)
		require.False(t, seen[s.ID], "duplicate id %s", s.ID)
		seen[s.ID] = true
	}
}

func TestResolveLifecycle(t *testing.T) {
	st, clock := newTestStore(t)
	s := st.Create(&Session{Kind: KindEditor, ActorID: "a"})

	got, err := st.Resolve(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)

	// Just inside the window.
	clock.advance(5 * time.Minute)
	_, err = st.Resolve(s.ID)
	require.NoError(t, err)

	// One step past it, for any kind.
	clock.advance(time.Nanosecond)
	_, err = st.Resolve(s.ID)
	assert.ErrorIs(t, err, ErrExpired)

	// Expiry detection drops the entry.
	_, err = st.Resolve(s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTouchExtendsLifetime(t *testing.T) {
	st, clock := newTestStore(t)
	s := st.Create(&Session{Kind: KindBlackRole, ActorID: "a"})

	clock.advance(4 * time.Minute)
	st.Touch(s.ID)
	clock.advance(4 * time.Minute)

	_, err := st.Resolve(s.ID)
	assert.NoError(t, err, "bumped session should survive 8 minutes of wall time")
}

func TestIsExpired(t *testing.T) {
	st, clock := newTestStore(t)
	assert.True(t, st.IsExpired("missing"))

	s := st.Create(&Session{Kind: KindBLRConfig, ActorID: "a"})
	assert.False(t, st.IsExpired(s.ID))
	clock.advance(DefaultTTL + time.Second)
	assert.True(t, st.IsExpired(s.ID))
}

func TestCapacityEvictsOldest(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	st := NewStore(0, 2, clock.now)

	first := st.Create(&Session{ActorID: "a"})
	clock.advance(time.Second)
	st.Create(&Session{ActorID: "b"})
	clock.advance(time.Second)
	st.Create(&Session{ActorID: "c"})

	_, err := st.Resolve(first.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 2, st.Len())
}

func TestSweep(t *testing.T) {
	st, clock := newTestStore(t)
	st.Create(&Session{ActorID: "a"})
	clock.advance(2 * time.Minute)
	st.Create(&Session{ActorID: "b"})
	clock.advance(4 * time.Minute)

	assert.Equal(t, 1, st.Sweep(), "only the first session is past the window")
	assert.Equal(t, 1, st.Len())
}
