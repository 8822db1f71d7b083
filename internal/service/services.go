package service

import (
	"messenger/internal/config"
	"messenger/internal/repository"
	"messenger/pkg/logger"
)

type Services struct {
	Auth      AuthService
	User      UserService
	Chat      ChatService
	RateLimit RateLimitService
}

func NewServices(repos *repository.Repositories, cfg *config.Config, log logger.Logger) *Services {
	return &Services{
		Auth:      NewAuthService(repos.User, repos.Presence, cfg.JWT, log),
		User:      NewUserService(repos.User, repos.Message, repos.Presence, log),
		Chat:      NewChatService(repos.Message, repos.User, log),
		RateLimit: NewRateLimitService(repos.RateLimit, log),
	}
}
