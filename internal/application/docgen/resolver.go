// Package docgen 实现文书生成流水线：模板解析、问题清单、填充与渲染
package docgen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"legal-assist-ai-api/internal/config"
	"legal-assist-ai-api/internal/domain/entity"
	"legal-assist-ai-api/internal/domain/repository"
	"legal-assist-ai-api/internal/infrastructure/persistence/redis"
	"legal-assist-ai-api/pkg/errors"
	"legal-assist-ai-api/pkg/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var resolverTracer = otel.Tracer("docgen.resolver")

// knownExtensions 目录标题中可能出现的文件扩展名
var knownExtensions = []string{".pdf", ".docx", ".doc", ".txt"}

// NormalizeTitle 将用户给出的模板名归一为匹配键：
// 剥离已知扩展名、去首尾空白、转小写。
// 归一化是幂等的：剥离与去空白交替进行，直到不再变化，
// "NDA .pdf" 这类标题不会留下尾部空白。
func NormalizeTitle(raw string) string {
	title := strings.ToLower(strings.TrimSpace(raw))
	for {
		stripped := title
		for _, ext := range knownExtensions {
			if strings.HasSuffix(stripped, ext) {
				stripped = strings.TrimSpace(strings.TrimSuffix(stripped, ext))
				break
			}
		}
		if stripped == title {
			return title
		}
		title = stripped
	}
}

// CatalogCache 目录标题清单的缓存端口，由 redis.Cache 实现。
type CatalogCache interface {
	GetOrLoadSafe(ctx context.Context, key string, ttl time.Duration, loader func() (interface{}, error)) ([]byte, error)
	InvalidateCatalog(ctx context.Context) error
}

// Resolver 模板解析器
// 目录条目命名并不规范（带不带扩展名、大小写混用都有），
// 解析时同时尝试裸标题与带默认扩展名的标题。
type Resolver struct {
	templates repository.TemplateRepository
	cache     CatalogCache
	cfg       *config.DocGenConfig
}

// NewResolver 创建模板解析器
func NewResolver(templates repository.TemplateRepository, cache CatalogCache, cfg *config.Config) *Resolver {
	return &Resolver{
		templates: templates,
		cache:     cache,
		cfg:       &cfg.DocGen,
	}
}

// Resolve 按用户给出的模板名查找目录条目。
// 未命中返回 ErrTemplateNotFound（Detail 带已知模板清单，便于用户改口）；
// 命中多条返回 ErrTemplateAmbiguous（Detail 带冲突条目的原始标题），绝不擅自挑一条。
func (r *Resolver) Resolve(ctx context.Context, rawTitle string) (*entity.Template, error) {
	ctx, span := resolverTracer.Start(ctx, "resolver.Resolve",
		trace.WithAttributes(attribute.String("template.raw_title", rawTitle)))
	defer span.End()

	bare := NormalizeTitle(rawTitle)
	if bare == "" {
		return nil, errors.ErrInvalidParam.WithDetail("template title is empty")
	}

	candidates := []string{bare}
	if ext := r.cfg.DefaultExtension; ext != "" {
		candidates = append(candidates, bare+ext)
	}
	span.SetAttributes(attribute.StringSlice("template.candidates", candidates))

	matches, err := r.templates.FindByNormalizedTitles(ctx, candidates)
	if err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to query template catalog")
	}

	switch len(matches) {
	case 0:
		known, listErr := r.KnownTitles(ctx)
		if listErr != nil {
			logger.Warn(ctx, "failed to list catalog titles for not-found detail", "error", listErr.Error())
		}
		span.SetAttributes(attribute.Bool("template.found", false))
		return nil, errors.ErrTemplateNotFound.WithDetail(
			fmt.Sprintf("no template matches %q; known templates: %s", bare, strings.Join(known, ", ")))
	case 1:
		span.SetAttributes(attribute.Bool("template.found", true),
			attribute.String("template.id", matches[0].ID))
		return matches[0], nil
	default:
		titles := make([]string, 0, len(matches))
		for _, m := range matches {
			titles = append(titles, m.Title)
		}
		span.SetAttributes(attribute.Int("template.match_count", len(matches)))
		return nil, errors.ErrTemplateAmbiguous.WithDetail(
			fmt.Sprintf("%q matches %d catalog entries: %s", bare, len(matches), strings.Join(titles, ", ")))
	}
}

// KnownTitles 返回目录内全部规范化标题，走 Redis 缓存避免每次未命中都扫目录。
// 缓存层故障降级为直查数据库，目录清单不因 Redis 不可用而失效。
func (r *Resolver) KnownTitles(ctx context.Context) ([]string, error) {
	if r.cache == nil {
		return r.templates.ListNormalizedTitles(ctx)
	}

	raw, err := r.cache.GetOrLoadSafe(ctx, redis.CatalogTitlesKey, r.cfg.CatalogCacheTTL, func() (interface{}, error) {
		return r.templates.ListNormalizedTitles(ctx)
	})
	if err != nil {
		logger.Warn(ctx, "catalog cache unavailable, reading titles from database", "error", err.Error())
		return r.templates.ListNormalizedTitles(ctx)
	}

	var titles []string
	if err := json.Unmarshal(raw, &titles); err != nil {
		logger.Warn(ctx, "catalog cache entry corrupt, reading titles from database", "error", err.Error())
		return r.templates.ListNormalizedTitles(ctx)
	}
	return titles, nil
}

// RefreshCatalog 使缓存的标题清单失效并重新加载。
// 目录条目在库里是运维带外维护的，条目变更后通过刷新接口让缓存立即跟上。
func (r *Resolver) RefreshCatalog(ctx context.Context) ([]string, error) {
	if r.cache != nil {
		if err := r.cache.InvalidateCatalog(ctx); err != nil {
			logger.Warn(ctx, "failed to invalidate catalog cache", "error", err.Error())
		}
	}
	return r.KnownTitles(ctx)
}
