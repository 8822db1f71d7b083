package service

import (
	"context"
	"time"

	"messenger/internal/domain"
	"messenger/internal/repository"
	apperrors "messenger/pkg/errors"
	"messenger/pkg/logger"
)

// ChatService drives the message lifecycle. It satisfies hub.Store, so the
// websocket sessions consume it directly.
type ChatService interface {
	SendMessage(ctx context.Context, senderID, receiverID int64, content string) (*domain.Message, error)
	MarkConversationRead(ctx context.Context, senderID, receiverID int64) (int64, error)
	DeleteMessages(ctx context.Context, ids []int64, senderID int64) ([]int64, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	TouchLastSeen(ctx context.Context, userID int64) error
	// History returns the visible two-way conversation and, as a side effect,
	// marks everything the caller had unread from the counterpart as read.
	History(ctx context.Context, userID, otherID int64) ([]*domain.Message, error)
}

type chatService struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
	log         logger.Logger
}

func NewChatService(messageRepo repository.MessageRepository, userRepo repository.UserRepository, log logger.Logger) ChatService {
	return &chatService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		log:         log,
	}
}

func (s *chatService) SendMessage(ctx context.Context, senderID, receiverID int64, content string) (*domain.Message, error) {
	if senderID == receiverID {
		return nil, apperrors.ErrSelfConversation
	}

	// The receiver must still exist; a stale counterpart fails this one send.
	if _, err := s.userRepo.GetByID(ctx, receiverID); err != nil {
		return nil, err
	}

	message := &domain.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		Timestamp:  time.Now(),
	}

	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	return message, nil
}

func (s *chatService) MarkConversationRead(ctx context.Context, senderID, receiverID int64) (int64, error) {
	return s.messageRepo.MarkConversationRead(ctx, senderID, receiverID)
}

func (s *chatService) DeleteMessages(ctx context.Context, ids []int64, senderID int64) ([]int64, error) {
	return s.messageRepo.SoftDelete(ctx, ids, senderID)
}

func (s *chatService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *chatService) TouchLastSeen(ctx context.Context, userID int64) error {
	return s.userRepo.TouchLastSeen(ctx, userID)
}

func (s *chatService) History(ctx context.Context, userID, otherID int64) ([]*domain.Message, error) {
	if _, err := s.userRepo.GetByID(ctx, otherID); err != nil {
		return nil, err
	}

	if _, err := s.messageRepo.MarkConversationRead(ctx, otherID, userID); err != nil {
		s.log.Warn("Failed to mark conversation read on history fetch", "error", err, "user_id", userID)
	}

	return s.messageRepo.Conversation(ctx, userID, otherID)
}
