// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"legal-assist-ai-api/internal/domain/entity"
)

type ChatCacheRepository struct {
	client *Client
}

func NewChatCacheRepository(client *Client) *ChatCacheRepository {
	return &ChatCacheRepository{client: client}
}

// FindExact 按规范化提问精确匹配；同一提问存在多条时取最早写入的一条。
func (r *ChatCacheRepository) FindExact(ctx context.Context, query string) (*entity.CachedQuery, error) {
	ctx, span := tracer.Start(ctx, "postgres.ChatCacheRepository.FindExact")
	defer span.End()

	db := r.client.db.WithContext(ctx)
	var record entity.CachedQuery
	if err := db.Where("query = ?", query).
		Order("created_at ASC").
		First(&record).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to find cached query: %w", err)
	}
	return &record, nil
}

func (r *ChatCacheRepository) Append(ctx context.Context, record *entity.CachedQuery) error {
	ctx, span := tracer.Start(ctx, "postgres.ChatCacheRepository.Append")
	defer span.End()

	db := r.client.db.WithContext(ctx)
	if err := db.Create(record).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to append cached query: %w", err)
	}
	return nil
}
