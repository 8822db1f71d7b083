package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"messenger/internal/middleware"
	"messenger/internal/service"
	apperrors "messenger/pkg/errors"
	"messenger/pkg/logger"
)

type ChatHandler struct {
	chatService service.ChatService
	log         logger.Logger
}

func NewChatHandler(chatService service.ChatService, log logger.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		log:         log,
	}
}

// History handles GET /api/v1/conversations/:user_id/messages. Opening a
// conversation marks everything unread from that counterpart as read, the
// same way the page load did before the realtime layer existed.
func (h *ChatHandler) History(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	otherID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	if otherID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": apperrors.ErrSelfConversation.Error()})
		return
	}

	messages, err := h.chatService.History(c.Request.Context(), userID, otherID)
	if err != nil {
		h.log.Error("Failed to fetch conversation", "error", err, "user_id", userID, "other_id", otherID)
		c.JSON(apperrors.HTTPStatusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}
