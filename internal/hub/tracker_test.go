package hub

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresenceTracker_Transitions(t *testing.T) {
	tr := NewPresenceTracker()

	_, ok := tr.Get(1)
	assert.False(t, ok, "unknown user has no entry")
	assert.False(t, tr.Online(1))

	tr.SetOnline(1)
	assert.True(t, tr.Online(1))

	tr.SetOffline(1)
	assert.False(t, tr.Online(1))

	// Repeated offline is idempotent on the flag.
	tr.SetOffline(1)
	assert.False(t, tr.Online(1))
}

func TestPresenceTracker_LastSeenAdvancesOnEveryTransition(t *testing.T) {
	tr := NewPresenceTracker()

	tr.SetOnline(1)
	first, ok := tr.Get(1)
	require.True(t, ok)

	time.Sleep(5 * time.Millisecond)
	tr.SetOffline(1)
	second, ok := tr.Get(1)
	require.True(t, ok)
	assert.True(t, second.LastSeen.After(first.LastSeen))

	time.Sleep(5 * time.Millisecond)
	tr.SetOffline(1)
	third, ok := tr.Get(1)
	require.True(t, ok)
	assert.True(t, third.LastSeen.After(second.LastSeen), "idempotent transition still stamps last_seen")
}
