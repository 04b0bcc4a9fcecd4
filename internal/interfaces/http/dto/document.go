package dto

import "time"

// QuestionsRequest 问卷生成请求
type QuestionsRequest struct {
	Template string `json:"template" binding:"required"`
}

// QuestionDTO 问卷中的一个问题
type QuestionDTO struct {
	ID        string `json:"id"`
	Question  string `json:"question"`
	FieldName string `json:"fieldName"`
	Required  bool   `json:"required"`
}

// QuestionsResponse 问卷生成响应
type QuestionsResponse struct {
	TemplateID    string        `json:"template_id"`
	TemplateTitle string        `json:"template_title"`
	Questions     []QuestionDTO `json:"questions"`
}

// GenerateDocumentRequest 文书生成请求
type GenerateDocumentRequest struct {
	Template string `json:"template" binding:"required"`
	// Responses 以问卷的 fieldName 为键的用户答案
	Responses map[string]string `json:"responses" binding:"required"`
}

// DocumentResponse 文书制品
type DocumentResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	PDFBase64 string    `json:"pdf_base64"`
	CreatedAt time.Time `json:"created_at"`
}

// DocumentSummary 列表用的制品摘要，不携带正文与 PDF
type DocumentSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// TemplateListResponse 模板目录响应
type TemplateListResponse struct {
	Templates []string `json:"templates"`
}
