package domain

import "time"

// Message is a single direct message between two users. Content is immutable;
// IsRead and IsDeleted only ever flip from false to true. Deleted messages
// keep their row but are hidden from every read path.
type Message struct {
	ID         int64     `json:"id"`
	SenderID   int64     `json:"sender_id"`
	ReceiverID int64     `json:"receiver_id"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
	IsRead     bool      `json:"is_read"`
	IsDeleted  bool      `json:"is_deleted"`
}

// PreviewLimit caps the notification preview length.
const PreviewLimit = 30

// Preview returns the truncated content used in notification fanout.
func (m *Message) Preview() string {
	runes := []rune(m.Content)
	if len(runes) <= PreviewLimit {
		return m.Content
	}
	return string(runes[:PreviewLimit])
}
