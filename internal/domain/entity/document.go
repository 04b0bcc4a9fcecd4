// Package entity 定义领域实体
package entity

import (
	"encoding/json"
	"time"
)

// GeneratedDocument 已生成的文书制品
// 一次成功的填充请求产生一条记录，写入后不可变。
// PDFBase64 保存渲染后的字节流（base64 编码），Responses 保存用户的原始答案。
type GeneratedDocument struct {
	ID        string          `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title     string          `json:"title" gorm:"type:varchar(255);not null"`
	Content   string          `json:"content" gorm:"type:text;not null"`
	PDFBase64 string          `json:"pdf_base64" gorm:"type:text;not null"`
	Responses json.RawMessage `json:"responses,omitempty" gorm:"type:jsonb"`
	CreatedAt time.Time       `json:"created_at" gorm:"autoCreateTime"`
}

func (GeneratedDocument) TableName() string {
	return "generated_documents"
}

func NewGeneratedDocument(title, content, pdfBase64 string, responses json.RawMessage) *GeneratedDocument {
	return &GeneratedDocument{
		Title:     title,
		Content:   content,
		PDFBase64: pdfBase64,
		Responses: responses,
		CreatedAt: time.Now(),
	}
}
