package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/forkful/forkful-v2/backend/internal/middleware"
	"github.com/forkful/forkful-v2/backend/internal/service"
	"github.com/forkful/forkful-v2/backend/internal/types"
)

// ChatHandler serves both authenticated and guest conversations. Guests
// identify themselves with the X-Session-Token header returned on start.
type ChatHandler struct {
	chatService *service.ChatService
	authService service.TokenValidator
	msgLimiter  *middleware.RateLimiter
}

func NewChatHandler(chatService *service.ChatService, authService service.TokenValidator, msgLimiter *middleware.RateLimiter) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		authService: authService,
		msgLimiter:  msgLimiter,
	}
}

func (h *ChatHandler) RegisterRoutes(router *gin.RouterGroup) {
	chat := router.Group("/chat", middleware.OptionalAuth(h.authService))
	{
		chat.POST("/conversations", h.StartConversation)
		chat.GET("/conversations/:id", h.GetConversation)
		chat.POST("/conversations/:id/messages", h.msgLimiter.Middleware(), h.PostMessage)
	}
}

func (h *ChatHandler) StartConversation(c *gin.Context) {
	var req types.StartConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conv, sessionToken, err := h.chatService.StartConversation(c.Request.Context(), middleware.Principal(c), req.Title)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{"conversation": conv}
	if sessionToken != "" {
		resp["session_token"] = sessionToken
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ChatHandler) GetConversation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation id"})
		return
	}

	conv, messages, err := h.chatService.GetConversation(c.Request.Context(), middleware.Principal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"conversation": conv,
		"messages":     messages,
	})
}

func (h *ChatHandler) PostMessage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation id"})
		return
	}

	var req types.PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userMsg, assistantMsg, err := h.chatService.PostMessage(c.Request.Context(), middleware.Principal(c), id, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": userMsg,
		"reply":   assistantMsg,
	})
}
