package hub

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConversationRoom_OrderIndependent(t *testing.T) {
	tests := []struct {
		name string
		a, b int64
		want string
	}{
		{"ascending", 1, 2, "chat_1_2"},
		{"descending", 2, 1, "chat_1_2"},
		{"large ids", 9000, 17, "chat_17_9000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConversationRoom(tt.a, tt.b))
		})
	}
}

func TestConversationRoom_Symmetric(t *testing.T) {
	pairs := [][2]int64{{1, 2}, {5, 5}, {100, 3}, {42, 999999}}
	for _, p := range pairs {
		assert.Equal(t, ConversationRoom(p[0], p[1]), ConversationRoom(p[1], p[0]))
	}
}

func TestNotificationRoom(t *testing.T) {
	assert.Equal(t, "notifications_7", NotificationRoom(7))
}
