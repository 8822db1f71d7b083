package hub

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"messenger/internal/domain"
	apperrors "messenger/pkg/errors"
	"messenger/pkg/logger"
)

// mockStore is an in-memory Store with the same filter semantics as the
// SQL repository: atomic filtered updates under one lock.
type mockStore struct {
	mu       sync.Mutex
	nextID   int64
	messages map[int64]*domain.Message
	users    map[int64]*domain.User
}

func newMockStore(users ...*domain.User) *mockStore {
	s := &mockStore{
		messages: make(map[int64]*domain.Message),
		users:    make(map[int64]*domain.User),
	}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *mockStore) SendMessage(_ context.Context, senderID, receiverID int64, content string) (*domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[receiverID]; !ok {
		return nil, apperrors.ErrUserNotFound
	}

	s.nextID++
	m := &domain.Message{
		ID:         s.nextID,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
	}
	s.messages[m.ID] = m
	return m, nil
}

func (s *mockStore) MarkConversationRead(_ context.Context, senderID, receiverID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var flipped int64
	for _, m := range s.messages {
		if m.SenderID == senderID && m.ReceiverID == receiverID && !m.IsRead {
			m.IsRead = true
			flipped++
		}
	}
	return flipped, nil
}

func (s *mockStore) DeleteMessages(_ context.Context, ids []int64, senderID int64) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted []int64
	for _, id := range ids {
		m, ok := s.messages[id]
		if !ok || m.SenderID != senderID || m.IsDeleted {
			continue
		}
		m.IsDeleted = true
		deleted = append(deleted, id)
	}
	return deleted, nil
}

func (s *mockStore) GetUser(_ context.Context, id int64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return u, nil
}

func (s *mockStore) TouchLastSeen(context.Context, int64) error { return nil }

func (s *mockStore) addMessage(m *domain.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID == 0 {
		s.nextID++
		m.ID = s.nextID
	} else if m.ID > s.nextID {
		s.nextID = m.ID
	}
	s.messages[m.ID] = m
}

func (s *mockStore) message(id int64) *domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.messages[id]
}

func (s *mockStore) messageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// testConversation wires a chat session for user 1 talking to user 2, with a
// second conversation client and a notification client listening.
type testConversation struct {
	hub      *Hub
	store    *mockStore
	session  *ChatSession
	peerView *Client // user 2's view of the conversation room
	notify   *Client // user 2's notification socket
}

func newTestConversation(t *testing.T) *testConversation {
	t.Helper()

	h := NewHub(logger.NewNop())
	store := newMockStore(
		&domain.User{ID: 1, Username: "alice", Email: "alice@example.com"},
		&domain.User{ID: 2, Username: "bob", Email: "bob@example.com"},
	)

	me := newTestClient(1)
	session := NewChatSession(h, me, store, logger.NewNop(), 1, "alice", 2)
	h.Join(session.room, me)

	peerView := newTestClient(2)
	h.Join(ConversationRoom(1, 2), peerView)

	notify := newTestClient(2)
	h.Join(NotificationRoom(2), notify)

	return &testConversation{hub: h, store: store, session: session, peerView: peerView, notify: notify}
}

func (tc *testConversation) inbound(t *testing.T, frame string) {
	t.Helper()
	tc.session.handleInbound(context.Background(), []byte(frame))
}

func TestChatSession_SendStoresAndBroadcasts(t *testing.T) {
	tc := newTestConversation(t)

	tc.inbound(t, `{"type":"send","message":"hello"}`)

	require.Equal(t, 1, tc.store.messageCount())
	stored := tc.store.message(1)
	assert.Equal(t, int64(1), stored.SenderID)
	assert.Equal(t, int64(2), stored.ReceiverID)
	assert.Equal(t, "hello", stored.Content)
	assert.False(t, stored.IsRead)

	events := drainEvents(t, tc.peerView)
	require.Len(t, events, 1)
	assert.Equal(t, EventChatMessage, events[0]["type"])
	assert.Equal(t, "hello", events[0]["message"])
	assert.Equal(t, float64(1), events[0]["sender_id"])
	assert.Equal(t, float64(2), events[0]["receiver_id"])
	assert.Equal(t, false, events[0]["is_read"])

	notifications := drainEvents(t, tc.notify)
	require.Len(t, notifications, 1)
	assert.Equal(t, EventNotifyMessage, notifications[0]["type"])
	assert.Equal(t, "alice", notifications[0]["sender_name"])
	assert.Equal(t, "hello", notifications[0]["preview"])
}

func TestChatSession_NotificationPreviewTruncated(t *testing.T) {
	tc := newTestConversation(t)

	long := strings.Repeat("a", 80)
	tc.inbound(t, `{"type":"send","message":"`+long+`"}`)

	notifications := drainEvents(t, tc.notify)
	require.Len(t, notifications, 1)
	assert.Equal(t, strings.Repeat("a", 30), notifications[0]["preview"])

	// The full content is still stored and broadcast untruncated.
	assert.Equal(t, long, tc.store.message(1).Content)
}

func TestChatSession_EmptySendIsIgnored(t *testing.T) {
	tc := newTestConversation(t)

	tc.inbound(t, `{"type":"send","message":""}`)
	tc.inbound(t, `{"type":"send","message":"   \t\n "}`)

	assert.Equal(t, 0, tc.store.messageCount())
	assert.Empty(t, drainEvents(t, tc.peerView))
	assert.Empty(t, drainEvents(t, tc.notify))
}

func TestChatSession_SendToVanishedReceiverDropsEvent(t *testing.T) {
	tc := newTestConversation(t)
	delete(tc.store.users, 2)

	tc.inbound(t, `{"type":"send","message":"hello"}`)

	assert.Equal(t, 0, tc.store.messageCount())
	assert.Empty(t, drainEvents(t, tc.peerView))
}

func TestChatSession_MalformedAndUnknownFramesAreDropped(t *testing.T) {
	tc := newTestConversation(t)

	tc.inbound(t, `not json at all`)
	tc.inbound(t, `{"type":"emoji_reaction","message":"x"}`)
	tc.inbound(t, `{"message":"no type"}`)
	// A presence event is a known wire type but means nothing here.
	tc.inbound(t, `{"type":"online","user_id":9}`)

	assert.Equal(t, 0, tc.store.messageCount())
	assert.Empty(t, drainEvents(t, tc.peerView))
	assert.Empty(t, drainEvents(t, tc.notify))
}

func TestChatSession_ReadMessagesFlipsAndBroadcastsReceipt(t *testing.T) {
	tc := newTestConversation(t)
	for i := 0; i < 3; i++ {
		tc.store.addMessage(&domain.Message{SenderID: 2, ReceiverID: 1})
	}

	tc.inbound(t, `{"type":"read_messages"}`)

	for id := int64(1); id <= 3; id++ {
		assert.True(t, tc.store.message(id).IsRead)
	}

	events := drainEvents(t, tc.peerView)
	require.Len(t, events, 1)
	assert.Equal(t, EventReadReceipt, events[0]["type"])
	assert.Equal(t, float64(1), events[0]["reader_id"])

	// Repeat: nothing left to flip, but the receipt still goes out.
	tc.inbound(t, `{"type":"read_messages"}`)
	events = drainEvents(t, tc.peerView)
	require.Len(t, events, 1)
	assert.Equal(t, EventReadReceipt, events[0]["type"])
}

func TestChatSession_ConcurrentReadMessagesIsIdempotent(t *testing.T) {
	tc := newTestConversation(t)
	for i := 0; i < 3; i++ {
		tc.store.addMessage(&domain.Message{SenderID: 2, ReceiverID: 1})
	}

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tc.session.handleInbound(context.Background(), []byte(`{"type":"read_messages"}`))
		}()
	}
	wg.Wait()

	for id := int64(1); id <= 3; id++ {
		assert.True(t, tc.store.message(id).IsRead)
	}
	// Both duplicate sessions emit a receipt; the store state is identical to
	// a single call.
	assert.Len(t, drainEvents(t, tc.peerView), 2)
}

func TestChatSession_TypingBroadcastsWithoutPersistence(t *testing.T) {
	tc := newTestConversation(t)

	tc.inbound(t, `{"type":"typing"}`)
	tc.inbound(t, `{"type":"typing"}`)
	tc.inbound(t, `{"type":"stop_typing"}`)

	events := drainEvents(t, tc.peerView)
	require.Len(t, events, 3, "typing events are not deduplicated")
	assert.Equal(t, true, events[0]["is_typing"])
	assert.Equal(t, true, events[1]["is_typing"])
	assert.Equal(t, false, events[2]["is_typing"])
	assert.Equal(t, 0, tc.store.messageCount())
}

func TestChatSession_DeleteFiltersToOwnUndeletedMessages(t *testing.T) {
	tc := newTestConversation(t)
	tc.store.addMessage(&domain.Message{ID: 5, SenderID: 1, ReceiverID: 2})
	tc.store.addMessage(&domain.Message{ID: 6, SenderID: 2, ReceiverID: 1})
	tc.store.addMessage(&domain.Message{ID: 7, SenderID: 1, ReceiverID: 2})

	tc.inbound(t, `{"type":"delete_messages","ids":[5,6,7]}`)

	assert.True(t, tc.store.message(5).IsDeleted)
	assert.False(t, tc.store.message(6).IsDeleted, "someone else's message stays")
	assert.True(t, tc.store.message(7).IsDeleted)

	events := drainEvents(t, tc.peerView)
	require.Len(t, events, 1)
	assert.Equal(t, EventMessageDeleted, events[0]["type"])
	assert.Equal(t, []any{float64(5), float64(7)}, events[0]["message_ids"])
	assert.Equal(t, float64(1), events[0]["sender_id"])
}

func TestChatSession_DeleteAlreadyDeletedIsSilent(t *testing.T) {
	tc := newTestConversation(t)
	tc.store.addMessage(&domain.Message{ID: 5, SenderID: 1, ReceiverID: 2, IsDeleted: true})

	tc.inbound(t, `{"type":"delete_messages","ids":[5]}`)

	assert.Empty(t, drainEvents(t, tc.peerView))
}

func TestChatSession_DeleteEmptyBatchIsSilent(t *testing.T) {
	tc := newTestConversation(t)

	tc.inbound(t, `{"type":"delete_messages","ids":[]}`)
	tc.inbound(t, `{"type":"delete_messages"}`)

	assert.Empty(t, drainEvents(t, tc.peerView))
}

func TestChatSession_TeardownLeavesRoom(t *testing.T) {
	tc := newTestConversation(t)
	room := ConversationRoom(1, 2)

	require.Equal(t, 2, tc.hub.RoomSize(room))
	tc.session.client.Close()
	assert.Equal(t, 1, tc.hub.RoomSize(room))

	// A later broadcast no longer attempts delivery to the closed session.
	tc.hub.Broadcast(room, TypingEvent{Type: EventTypingUpdate, SenderID: 2, IsTyping: true})
	assert.Len(t, drainEvents(t, tc.peerView), 1)
}
