package hub

import (
	"context"

	"messenger/pkg/logger"
)

// NotificationSession subscribes a connection to its owner's personal
// notification room. It is write-only: inbound frames are drained by the
// read pump purely for keepalive and close detection.
type NotificationSession struct {
	hub    *Hub
	client *Client
	log    logger.Logger
	room   string
}

func NewNotificationSession(h *Hub, client *Client, log logger.Logger) *NotificationSession {
	s := &NotificationSession{
		hub:    h,
		client: client,
		log:    log,
		room:   NotificationRoom(client.UserID),
	}
	client.cleanup = s.teardown
	return s
}

func (s *NotificationSession) Run(ctx context.Context) {
	s.hub.Join(s.room, s.client)
	s.client.Run(ctx)
}

func (s *NotificationSession) teardown() {
	s.hub.Leave(s.room, s.client)
}
