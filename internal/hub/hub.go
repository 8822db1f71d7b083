package hub

import (
	"encoding/json"
	"sync"

	"messenger/pkg/logger"
)

// Hub is the room registry: it maps room keys to the set of currently
// subscribed clients and fans events out to them. Membership mutation and
// the broadcast snapshot are serialized through one RWMutex, so a client
// never receives an event for a room it has not joined and never misses one
// for a room it was a member of when the broadcast began.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
	log   logger.Logger
}

func NewHub(log logger.Logger) *Hub {
	return &Hub{
		rooms: make(map[string]map[*Client]struct{}),
		log:   log,
	}
}

// Join subscribes a client to a room. Re-joining is a no-op.
func (h *Hub) Join(room string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Client]struct{})
		h.rooms[room] = members
	}
	members[c] = struct{}{}
}

// Leave removes a client from a room. Empty rooms are garbage-collected.
func (h *Hub) Leave(room string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.rooms[room]
	if !ok {
		return
	}
	delete(members, c)
	if len(members) == 0 {
		delete(h.rooms, room)
	}
}

// Broadcast serializes an event once and delivers it to every client that is
// a member of the room at call time. Membership changes during the fan-out do
// not affect the in-flight call. An empty or unknown room is a silent no-op.
//
// Delivery only enqueues into each member's buffered egress channel, so one
// slow reader can never stall the others. A member whose buffer is full is
// treated as dead and closed, which runs its own disconnect cleanup.
func (h *Hub) Broadcast(room string, event any) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.log.Error("Failed to marshal broadcast event", "error", err, "room", room)
		return
	}

	h.mu.RLock()
	members := h.rooms[room]
	snapshot := make([]*Client, 0, len(members))
	for c := range members {
		snapshot = append(snapshot, c)
	}
	h.mu.RUnlock()

	for _, c := range snapshot {
		if !c.Enqueue(payload) {
			h.log.Warn("Dropping unresponsive subscriber", "client_id", c.ID, "user_id", c.UserID, "room", room)
			go c.Close()
		}
	}
}

// RoomSize reports the current member count of a room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
