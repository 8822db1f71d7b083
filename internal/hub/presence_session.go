package hub

import (
	"context"

	"messenger/pkg/logger"
)

// PresenceSession subscribes a connection to the global presence room.
//
// The "online" signal originates from the login flow, not from this
// connection: the client announces itself with an {"type":"online"} event
// after logging in, and the session re-broadcasts it. A user holding an open
// connection without having sent that event is never marked online; that
// asymmetry is deliberate. The offline signal, by contrast, is tied to the
// connection: it goes out when the socket closes, before leaving the room.
type PresenceSession struct {
	hub     *Hub
	client  *Client
	tracker *PresenceTracker
	log     logger.Logger
}

func NewPresenceSession(h *Hub, client *Client, tracker *PresenceTracker, log logger.Logger) *PresenceSession {
	s := &PresenceSession{
		hub:     h,
		client:  client,
		tracker: tracker,
		log:     log,
	}
	client.inbound = s.handleInbound
	client.cleanup = s.teardown
	return s
}

func (s *PresenceSession) Run(ctx context.Context) {
	s.hub.Join(PresenceRoom, s.client)
	s.client.Run(ctx)
}

func (s *PresenceSession) handleInbound(_ context.Context, data []byte) {
	ev, ok := decodeInbound(data)
	if !ok {
		return
	}
	if ev.Type != EventOnline {
		return
	}

	s.tracker.SetOnline(ev.UserID)
	s.hub.Broadcast(PresenceRoom, PresenceUpdateEvent{
		Type:     EventPresenceUpdate,
		UserID:   ev.UserID,
		IsOnline: true,
	})
}

func (s *PresenceSession) teardown() {
	s.tracker.SetOffline(s.client.UserID)
	s.hub.Broadcast(PresenceRoom, PresenceUpdateEvent{
		Type:     EventPresenceUpdate,
		UserID:   s.client.UserID,
		IsOnline: false,
	})
	s.hub.Leave(PresenceRoom, s.client)
}
