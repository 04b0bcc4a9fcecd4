package handler

import (
	"github.com/gin-gonic/gin"

	"legal-assist-ai-api/internal/application/docgen"
	"legal-assist-ai-api/internal/interfaces/http/dto"
)

// TemplateHandler 模板目录处理器
type TemplateHandler struct {
	docgenService *docgen.Service
}

// NewTemplateHandler 创建模板目录处理器
func NewTemplateHandler(docgenService *docgen.Service) *TemplateHandler {
	return &TemplateHandler{
		docgenService: docgenService,
	}
}

// List 列出可用模板
// GET /v1/templates
func (h *TemplateHandler) List(c *gin.Context) {
	titles, err := h.docgenService.ListTemplates(c.Request.Context())
	if err != nil {
		dto.FromAppError(c, err)
		return
	}

	dto.Success(c, dto.TemplateListResponse{Templates: titles})
}

// Refresh 使模板目录缓存失效并返回最新清单
// POST /v1/templates/refresh
func (h *TemplateHandler) Refresh(c *gin.Context) {
	titles, err := h.docgenService.RefreshTemplates(c.Request.Context())
	if err != nil {
		dto.FromAppError(c, err)
		return
	}

	dto.Success(c, dto.TemplateListResponse{Templates: titles})
}
