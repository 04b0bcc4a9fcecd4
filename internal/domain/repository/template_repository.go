// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"legal-assist-ai-api/internal/domain/entity"
)

// TemplateRepository 模板目录（只读）
type TemplateRepository interface {
	// FindByNormalizedTitles 按规范化标题集合查询，返回目录中的全部命中项，
	// 按 created_at 升序（命中多条时调用方据此做出明确裁决）。
	FindByNormalizedTitles(ctx context.Context, titles []string) ([]*entity.Template, error)
	// ListNormalizedTitles 返回目录内全部规范化标题（用于未命中时的诊断信息）。
	ListNormalizedTitles(ctx context.Context) ([]string, error)
}
