package hub

import (
	"context"
	"strings"

	"messenger/internal/domain"
	"messenger/pkg/logger"
)

// Store is the narrow persistence surface the conversation engine consumes.
// The chat service implements it.
type Store interface {
	SendMessage(ctx context.Context, senderID, receiverID int64, content string) (*domain.Message, error)
	MarkConversationRead(ctx context.Context, senderID, receiverID int64) (int64, error)
	DeleteMessages(ctx context.Context, ids []int64, senderID int64) ([]int64, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	TouchLastSeen(ctx context.Context, userID int64) error
}

// ChatSession is one user's live view of one pairwise conversation. It
// interprets inbound commands against the store and broadcasts the resulting
// events to the conversation room, plus a preview to the counterpart's
// notification room on sends.
type ChatSession struct {
	hub      *Hub
	client   *Client
	store    Store
	log      logger.Logger
	userID   int64
	userName string
	otherID  int64
	room     string
}

func NewChatSession(h *Hub, client *Client, store Store, log logger.Logger, userID int64, userName string, otherID int64) *ChatSession {
	s := &ChatSession{
		hub:      h,
		client:   client,
		store:    store,
		log:      log,
		userID:   userID,
		userName: userName,
		otherID:  otherID,
		room:     ConversationRoom(userID, otherID),
	}
	client.inbound = s.handleInbound
	client.cleanup = s.teardown
	return s
}

// Run joins the conversation room and services the connection until it
// closes. Blocks for the connection lifetime.
func (s *ChatSession) Run(ctx context.Context) {
	s.hub.Join(s.room, s.client)
	if err := s.store.TouchLastSeen(ctx, s.userID); err != nil {
		s.log.Warn("Failed to update last seen on connect", "error", err, "user_id", s.userID)
	}

	s.client.Run(ctx)
}

func (s *ChatSession) teardown() {
	s.hub.Leave(s.room, s.client)
	if err := s.store.TouchLastSeen(context.Background(), s.userID); err != nil {
		s.log.Warn("Failed to update last seen on disconnect", "error", err, "user_id", s.userID)
	}
}

func (s *ChatSession) handleInbound(ctx context.Context, data []byte) {
	ev, ok := decodeInbound(data)
	if !ok {
		return
	}

	switch ev.Type {
	case EventSend:
		s.handleSend(ctx, ev.Message)
	case EventReadMessages:
		s.handleReadMessages(ctx)
	case EventTyping:
		s.broadcastTyping(true)
	case EventStopTyping:
		s.broadcastTyping(false)
	case EventDeleteMessages:
		s.handleDelete(ctx, ev.IDs)
	default:
		// Known wire type that carries no meaning on a conversation socket.
	}
}

func (s *ChatSession) handleSend(ctx context.Context, raw string) {
	content := strings.TrimSpace(raw)
	if content == "" {
		return
	}

	message, err := s.store.SendMessage(ctx, s.userID, s.otherID, content)
	if err != nil {
		s.log.Warn("Dropping message that could not be stored", "error", err, "sender_id", s.userID, "receiver_id", s.otherID)
		return
	}

	s.hub.Broadcast(s.room, ChatMessageEvent{
		Type:       EventChatMessage,
		MessageID:  message.ID,
		Message:    message.Content,
		SenderID:   message.SenderID,
		ReceiverID: message.ReceiverID,
		Timestamp:  message.Timestamp.Format("15:04"),
		IsRead:     message.IsRead,
	})

	// The preview goes to the receiver's notification room regardless of
	// whether they have this conversation open; the two rooms are distinct
	// channels.
	s.hub.Broadcast(NotificationRoom(s.otherID), NotifyMessageEvent{
		Type:       EventNotifyMessage,
		SenderID:   s.userID,
		SenderName: s.userName,
		Preview:    message.Preview(),
	})
}

func (s *ChatSession) handleReadMessages(ctx context.Context) {
	if _, err := s.store.MarkConversationRead(ctx, s.otherID, s.userID); err != nil {
		s.log.Warn("Failed to mark conversation read", "error", err, "reader_id", s.userID)
		return
	}

	// The receipt is a state-sync signal, not a count: it goes out even when
	// nothing was unread.
	s.hub.Broadcast(s.room, ReadReceiptEvent{
		Type:     EventReadReceipt,
		ReaderID: s.userID,
	})
}

func (s *ChatSession) broadcastTyping(isTyping bool) {
	s.hub.Broadcast(s.room, TypingEvent{
		Type:     EventTypingUpdate,
		SenderID: s.userID,
		IsTyping: isTyping,
	})
}

func (s *ChatSession) handleDelete(ctx context.Context, ids []int64) {
	if len(ids) == 0 {
		return
	}

	deleted, err := s.store.DeleteMessages(ctx, ids, s.userID)
	if err != nil {
		s.log.Warn("Failed to delete messages", "error", err, "sender_id", s.userID)
		return
	}
	if len(deleted) == 0 {
		return
	}

	// Only the ids that actually changed go out, never the requested set.
	s.hub.Broadcast(s.room, MessageDeletedEvent{
		Type:       EventMessageDeleted,
		MessageIDs: deleted,
		SenderID:   s.userID,
	})
}
