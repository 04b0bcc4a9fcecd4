// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"legal-assist-ai-api/internal/domain/entity"
)

type TemplateRepository struct {
	client *Client
}

func NewTemplateRepository(client *Client) *TemplateRepository {
	return &TemplateRepository{client: client}
}

// FindByNormalizedTitles 按规范化标题集合查询命中项。
// created_at 升序保证调用方看到稳定的目录顺序。
func (r *TemplateRepository) FindByNormalizedTitles(ctx context.Context, titles []string) ([]*entity.Template, error) {
	ctx, span := tracer.Start(ctx, "postgres.TemplateRepository.FindByNormalizedTitles")
	defer span.End()

	if len(titles) == 0 {
		return nil, nil
	}

	db := r.client.db.WithContext(ctx)
	var templates []*entity.Template
	if err := db.Where("normalized_title IN ?", titles).
		Order("created_at ASC").
		Find(&templates).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to find templates by normalized titles: %w", err)
	}
	return templates, nil
}

// ListNormalizedTitles 返回目录内全部规范化标题。
func (r *TemplateRepository) ListNormalizedTitles(ctx context.Context) ([]string, error) {
	ctx, span := tracer.Start(ctx, "postgres.TemplateRepository.ListNormalizedTitles")
	defer span.End()

	db := r.client.db.WithContext(ctx)
	var titles []string
	if err := db.Model(&entity.Template{}).
		Order("created_at ASC").
		Pluck("normalized_title", &titles).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list normalized titles: %w", err)
	}
	return titles, nil
}
