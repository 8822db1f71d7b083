package hub

import "encoding/json"

// Inbound event types.
const (
	EventSend           = "send"
	EventTyping         = "typing"
	EventStopTyping     = "stop_typing"
	EventReadMessages   = "read_messages"
	EventDeleteMessages = "delete_messages"
	EventOnline         = "online"
)

// Outbound event types.
const (
	EventChatMessage    = "chat_message"
	EventTypingUpdate   = "typing"
	EventReadReceipt    = "read_receipt"
	EventMessageDeleted = "message_deleted"
	EventNotifyMessage  = "notify_message"
	EventPresenceUpdate = "presence_update"
)

// inboundEvent is the wire envelope for everything a client can send.
type inboundEvent struct {
	Type    string  `json:"type"`
	Message string  `json:"message,omitempty"`
	IDs     []int64 `json:"ids,omitempty"`
	UserID  int64   `json:"user_id,omitempty"`
}

// decodeInbound parses a frame and filters it to the known event set.
// Malformed payloads and unrecognized types are dropped here, silently, so
// newer clients can speak to older servers without killing the connection.
func decodeInbound(data []byte) (*inboundEvent, bool) {
	var ev inboundEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, false
	}

	switch ev.Type {
	case EventSend, EventTyping, EventStopTyping, EventReadMessages, EventDeleteMessages, EventOnline:
		return &ev, true
	default:
		return nil, false
	}
}

type ChatMessageEvent struct {
	Type       string `json:"type"`
	MessageID  int64  `json:"message_id"`
	Message    string `json:"message"`
	SenderID   int64  `json:"sender_id"`
	ReceiverID int64  `json:"receiver_id"`
	Timestamp  string `json:"timestamp"`
	IsRead     bool   `json:"is_read"`
}

type TypingEvent struct {
	Type     string `json:"type"`
	SenderID int64  `json:"sender_id"`
	IsTyping bool   `json:"is_typing"`
}

type ReadReceiptEvent struct {
	Type     string `json:"type"`
	ReaderID int64  `json:"reader_id"`
}

type MessageDeletedEvent struct {
	Type       string  `json:"type"`
	MessageIDs []int64 `json:"message_ids"`
	SenderID   int64   `json:"sender_id"`
}

type NotifyMessageEvent struct {
	Type       string `json:"type"`
	SenderID   int64  `json:"sender_id"`
	SenderName string `json:"sender_name"`
	Preview    string `json:"preview"`
}

type PresenceUpdateEvent struct {
	Type     string `json:"type"`
	UserID   int64  `json:"user_id"`
	IsOnline bool   `json:"is_online"`
}
