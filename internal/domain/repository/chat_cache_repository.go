// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"legal-assist-ai-api/internal/domain/entity"
)

// ChatCacheRepository 对话缓存存储（仅追加）
type ChatCacheRepository interface {
	// FindExact 按规范化提问做精确匹配；未命中返回 (nil, nil)。
	FindExact(ctx context.Context, query string) (*entity.CachedQuery, error)
	Append(ctx context.Context, record *entity.CachedQuery) error
}
