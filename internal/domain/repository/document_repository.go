// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"legal-assist-ai-api/internal/domain/entity"
)

// DocumentRepository 生成文书制品存储
type DocumentRepository interface {
	// Create 持久化制品并回填服务端分配的 ID 与时间戳。
	Create(ctx context.Context, doc *entity.GeneratedDocument) error
	GetByID(ctx context.Context, id string) (*entity.GeneratedDocument, error)
	List(ctx context.Context, pagination Pagination) (*PagedResult[*entity.GeneratedDocument], error)
}
