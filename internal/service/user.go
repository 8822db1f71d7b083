package service

import (
	"context"

	"messenger/internal/domain"
	"messenger/internal/repository"
	"messenger/pkg/logger"
)

type UserService interface {
	// ListContacts returns every other user with their unread count, with the
	// online flag overlaid from the presence cache when it is reachable.
	ListContacts(ctx context.Context, userID int64) ([]*domain.UserSummary, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type userService struct {
	userRepo     repository.UserRepository
	messageRepo  repository.MessageRepository
	presenceRepo repository.PresenceRepository
	log          logger.Logger
}

func NewUserService(userRepo repository.UserRepository, messageRepo repository.MessageRepository, presenceRepo repository.PresenceRepository, log logger.Logger) UserService {
	return &userService{
		userRepo:     userRepo,
		messageRepo:  messageRepo,
		presenceRepo: presenceRepo,
		log:          log,
	}
}

func (s *userService) ListContacts(ctx context.Context, userID int64) ([]*domain.UserSummary, error) {
	users, err := s.userRepo.ListOthers(ctx, userID)
	if err != nil {
		return nil, err
	}

	counts, err := s.messageRepo.UnreadCounts(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]*domain.UserSummary, 0, len(users))
	for _, user := range users {
		if online, err := s.presenceRepo.IsOnline(ctx, user.ID); err == nil && online {
			user.IsOnline = true
		}
		summaries = append(summaries, &domain.UserSummary{
			User:        user,
			UnreadCount: counts[user.ID],
		})
	}

	return summaries, nil
}

func (s *userService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}
