package handler

import (
	"github.com/gin-gonic/gin"

	"legal-assist-ai-api/internal/application/chat"
	"legal-assist-ai-api/internal/interfaces/http/dto"
)

// ChatHandler 对话处理器
type ChatHandler struct {
	chatService *chat.Service
}

// NewChatHandler 创建对话处理器
func NewChatHandler(chatService *chat.Service) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

// Chat 处理一轮对话
// POST /v1/chat
func (h *ChatHandler) Chat(c *gin.Context) {
	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	reply, err := h.chatService.Ask(c.Request.Context(), req.SessionID, req.Message)
	if err != nil {
		dto.FromAppError(c, err)
		return
	}

	dto.Success(c, dto.ChatResponse{
		SessionID: reply.SessionID,
		Response:  reply.Response,
		Source:    reply.Source,
		CreateDoc: reply.CreateDoc,
	})
}
