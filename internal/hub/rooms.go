package hub

import "fmt"

// PresenceRoom is the single global room every presence connection joins.
const PresenceRoom = "presence_group"

// ConversationRoom derives the room key for a pairwise chat. The ids are
// sorted so both participants compute the same key regardless of who
// initiated the conversation.
func ConversationRoom(a, b int64) string {
	if b < a {
		a, b = b, a
	}
	return fmt.Sprintf("chat_%d_%d", a, b)
}

// NotificationRoom is the per-user room for out-of-conversation previews.
func NotificationRoom(userID int64) string {
	return fmt.Sprintf("notifications_%d", userID)
}
