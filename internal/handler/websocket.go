package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"messenger/internal/domain"
	"messenger/internal/hub"
	"messenger/internal/service"
	"messenger/pkg/logger"
)

// WebSocketHandler upgrades the three realtime endpoints and hands the
// connection to the matching session type. Authentication happens before the
// upgrade: a rejected connection never touches the room registry.
type WebSocketHandler struct {
	authService service.AuthService
	chatService service.ChatService
	hub         *hub.Hub
	tracker     *hub.PresenceTracker
	upgrader    websocket.Upgrader
	log         logger.Logger
}

func NewWebSocketHandler(authService service.AuthService, chatService service.ChatService, h *hub.Hub, tracker *hub.PresenceTracker, allowedOrigins []string, log logger.Logger) *WebSocketHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	return &WebSocketHandler{
		authService: authService,
		chatService: chatService,
		hub:         h,
		tracker:     tracker,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed[origin]
			},
		},
		log: log,
	}
}

// authenticate resolves the user from the token query parameter. Browsers
// cannot set headers on websocket handshakes, so the token travels in the
// URL here.
func (h *WebSocketHandler) authenticate(c *gin.Context) (*domain.User, bool) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token required"})
		return nil, false
	}

	user, err := h.authService.ValidateToken(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return nil, false
	}

	return user, true
}

// HandleChat handles GET /ws/chat/:user_id — the pairwise conversation socket.
func (h *WebSocketHandler) HandleChat(c *gin.Context) {
	user, ok := h.authenticate(c)
	if !ok {
		return
	}

	otherID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	if otherID == user.ID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot open a conversation with yourself"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := hub.NewClient(conn, user.ID, h.log)
	session := hub.NewChatSession(h.hub, client, h.chatService, h.log, user.ID, user.DisplayName(), otherID)

	h.log.Info("Chat session opened", "client_id", client.ID, "user_id", user.ID, "other_id", otherID)
	session.Run(c.Request.Context())
	h.log.Info("Chat session closed", "client_id", client.ID, "user_id", user.ID)
}

// HandleNotifications handles GET /ws/notifications — the personal preview socket.
func (h *WebSocketHandler) HandleNotifications(c *gin.Context) {
	user, ok := h.authenticate(c)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := hub.NewClient(conn, user.ID, h.log)
	session := hub.NewNotificationSession(h.hub, client, h.log)

	session.Run(c.Request.Context())
}

// HandlePresence handles GET /ws/presence — the global presence socket.
func (h *WebSocketHandler) HandlePresence(c *gin.Context) {
	user, ok := h.authenticate(c)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := hub.NewClient(conn, user.ID, h.log)
	session := hub.NewPresenceSession(h.hub, client, h.tracker, h.log)

	session.Run(c.Request.Context())
}
