package handler

import (
	"messenger/internal/config"
	"messenger/internal/hub"
	"messenger/internal/service"
	"messenger/pkg/logger"
)

type Handlers struct {
	Health    *HealthHandler
	Auth      *AuthHandler
	User      *UserHandler
	Chat      *ChatHandler
	WebSocket *WebSocketHandler
}

func NewHandlers(services *service.Services, h *hub.Hub, tracker *hub.PresenceTracker, cfg *config.Config, log logger.Logger) *Handlers {
	return &Handlers{
		Health:    NewHealthHandler(cfg),
		Auth:      NewAuthHandler(services.Auth, log),
		User:      NewUserHandler(services.User, log),
		Chat:      NewChatHandler(services.Chat, log),
		WebSocket: NewWebSocketHandler(services.Auth, services.Chat, h, tracker, cfg.Server.AllowedOrigins, log),
	}
}
