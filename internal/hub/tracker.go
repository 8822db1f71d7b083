package hub

import (
	"sync"
	"time"
)

// PresenceEntry is the cached view of one user's presence. The durable copy
// lives in the users table; this cache only reflects what has been observed
// on this instance.
type PresenceEntry struct {
	Online   bool
	LastSeen time.Time
}

// PresenceTracker keeps the in-memory user-id → presence map. Transitions
// are idempotent and last_seen is stamped on every transition in either
// direction.
type PresenceTracker struct {
	mu      sync.RWMutex
	entries map[int64]PresenceEntry
}

func NewPresenceTracker() *PresenceTracker {
	return &PresenceTracker{
		entries: make(map[int64]PresenceEntry),
	}
}

func (t *PresenceTracker) SetOnline(userID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[userID] = PresenceEntry{Online: true, LastSeen: time.Now()}
}

func (t *PresenceTracker) SetOffline(userID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[userID] = PresenceEntry{Online: false, LastSeen: time.Now()}
}

func (t *PresenceTracker) Get(userID int64) (PresenceEntry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	entry, ok := t.entries[userID]
	return entry, ok
}

// Online reports whether the user is currently marked online.
func (t *PresenceTracker) Online(userID int64) bool {
	entry, ok := t.Get(userID)
	return ok && entry.Online
}
