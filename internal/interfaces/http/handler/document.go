package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"legal-assist-ai-api/internal/application/docgen"
	"legal-assist-ai-api/internal/domain/repository"
	"legal-assist-ai-api/internal/interfaces/http/dto"
)

// DocumentHandler 文书生成处理器
type DocumentHandler struct {
	docgenService *docgen.Service
}

// NewDocumentHandler 创建文书生成处理器
func NewDocumentHandler(docgenService *docgen.Service) *DocumentHandler {
	return &DocumentHandler{
		docgenService: docgenService,
	}
}

// Questions 生成填充问卷
// POST /v1/documents/questions
func (h *DocumentHandler) Questions(c *gin.Context) {
	var req dto.QuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	schema, err := h.docgenService.GenerateQuestions(c.Request.Context(), req.Template)
	if err != nil {
		dto.FromAppError(c, err)
		return
	}

	questions := make([]dto.QuestionDTO, 0, len(schema.Questions))
	for _, q := range schema.Questions {
		questions = append(questions, dto.QuestionDTO{
			ID:        q.ID,
			Question:  q.Question,
			FieldName: q.FieldName,
			Required:  q.Required,
		})
	}

	dto.Success(c, dto.QuestionsResponse{
		TemplateID:    schema.TemplateID,
		TemplateTitle: schema.TemplateTitle,
		Questions:     questions,
	})
}

// Generate 填充并渲染文书
// POST /v1/documents/generate
func (h *DocumentHandler) Generate(c *gin.Context) {
	var req dto.GenerateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	doc, err := h.docgenService.GenerateDocument(c.Request.Context(), req.Template, req.Responses)
	if err != nil {
		dto.FromAppError(c, err)
		return
	}

	dto.Created(c, dto.DocumentResponse{
		ID:        doc.ID,
		Title:     doc.Title,
		Content:   doc.Content,
		PDFBase64: doc.PDFBase64,
		CreatedAt: doc.CreatedAt,
	})
}

// Get 按 ID 取回文书制品
// GET /v1/documents/:id
func (h *DocumentHandler) Get(c *gin.Context) {
	doc, err := h.docgenService.GetDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.FromAppError(c, err)
		return
	}

	dto.Success(c, dto.DocumentResponse{
		ID:        doc.ID,
		Title:     doc.Title,
		Content:   doc.Content,
		PDFBase64: doc.PDFBase64,
		CreatedAt: doc.CreatedAt,
	})
}

// List 分页列出文书制品
// GET /v1/documents
func (h *DocumentHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	pagination := repository.NewPagination(page, pageSize)

	result, err := h.docgenService.ListDocuments(c.Request.Context(), pagination)
	if err != nil {
		dto.FromAppError(c, err)
		return
	}

	summaries := make([]dto.DocumentSummary, 0, len(result.Items))
	for _, doc := range result.Items {
		summaries = append(summaries, dto.DocumentSummary{
			ID:        doc.ID,
			Title:     doc.Title,
			CreatedAt: doc.CreatedAt,
		})
	}

	dto.SuccessWithPage(c, summaries, dto.NewPageMeta(result.Page, result.PageSize, result.Total))
}
