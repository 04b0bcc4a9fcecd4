package docgen

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"legal-assist-ai-api/internal/domain/entity"
	"legal-assist-ai-api/internal/domain/repository"
	"legal-assist-ai-api/pkg/errors"
	"legal-assist-ai-api/pkg/logger"
	"legal-assist-ai-api/pkg/metrics"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var serviceTracer = otel.Tracer("docgen.service")

// QuestionSchema 问卷响应：解析出的模板加问题清单
type QuestionSchema struct {
	TemplateID    string     `json:"template_id"`
	TemplateTitle string     `json:"template_title"`
	Questions     []Question `json:"questions"`
}

// Service 文书生成服务，串联 解析 → 问卷/填充 → 渲染 → 存储
type Service struct {
	resolver  *Resolver
	schema    *SchemaGenerator
	filler    *Filler
	renderer  *PDFRenderer
	documents repository.DocumentRepository
}

// NewService 创建文书生成服务
func NewService(
	resolver *Resolver,
	schema *SchemaGenerator,
	filler *Filler,
	renderer *PDFRenderer,
	documents repository.DocumentRepository,
) *Service {
	return &Service{
		resolver:  resolver,
		schema:    schema,
		filler:    filler,
		renderer:  renderer,
		documents: documents,
	}
}

// GenerateQuestions 解析模板并产出填充问卷。
func (s *Service) GenerateQuestions(ctx context.Context, rawTitle string) (*QuestionSchema, error) {
	ctx, span := serviceTracer.Start(ctx, "docgen.GenerateQuestions",
		trace.WithAttributes(attribute.String("template.raw_title", rawTitle)))
	defer span.End()

	tpl, err := s.resolver.Resolve(ctx, rawTitle)
	if err != nil {
		return nil, err
	}

	questions, err := s.schema.Generate(ctx, tpl)
	if err != nil {
		return nil, err
	}

	return &QuestionSchema{
		TemplateID:    tpl.ID,
		TemplateTitle: tpl.Title,
		Questions:     questions,
	}, nil
}

// GenerateDocument 解析模板、填充答案、渲染 PDF 并持久化制品。
// 持久化是尽力而为：写库失败只记录，不吞掉已经生成的文书。
func (s *Service) GenerateDocument(ctx context.Context, rawTitle string, responses map[string]string) (*entity.GeneratedDocument, error) {
	ctx, span := serviceTracer.Start(ctx, "docgen.GenerateDocument",
		trace.WithAttributes(
			attribute.String("template.raw_title", rawTitle),
			attribute.Int("responses.count", len(responses)),
		))
	defer span.End()

	start := time.Now()

	tpl, err := s.resolver.Resolve(ctx, rawTitle)
	if err != nil {
		metrics.DocumentGenerationTotal.WithLabelValues("resolve_failed").Inc()
		return nil, err
	}

	content, err := s.filler.Fill(ctx, tpl, responses)
	if err != nil {
		metrics.DocumentGenerationTotal.WithLabelValues("fill_failed").Inc()
		return nil, err
	}

	pdfBytes, err := s.renderer.Render(ctx, tpl.NormalizedTitle, tpl.Title, content)
	if err != nil {
		metrics.DocumentGenerationTotal.WithLabelValues("render_failed").Inc()
		return nil, err
	}

	responsesJSON, err := json.Marshal(responses)
	if err != nil {
		metrics.DocumentGenerationTotal.WithLabelValues("internal_error").Inc()
		return nil, errors.Wrap(err, errors.CodeInternalError, "failed to marshal responses")
	}

	doc := entity.NewGeneratedDocument(tpl.Title, content, base64.StdEncoding.EncodeToString(pdfBytes), responsesJSON)
	if err := s.documents.Create(ctx, doc); err != nil {
		metrics.PersistenceFailures.WithLabelValues("document").Inc()
		logger.Error(ctx, "failed to persist generated document", err,
			"template", tpl.Title)
	}

	metrics.DocumentGenerationTotal.WithLabelValues("success").Inc()
	metrics.DocumentGenerationDuration.WithLabelValues(tpl.NormalizedTitle).Observe(time.Since(start).Seconds())
	span.SetAttributes(attribute.String("document.id", doc.ID))
	return doc, nil
}

// GetDocument 按 ID 取回制品。
func (s *Service) GetDocument(ctx context.Context, id string) (*entity.GeneratedDocument, error) {
	ctx, span := serviceTracer.Start(ctx, "docgen.GetDocument",
		trace.WithAttributes(attribute.String("document.id", id)))
	defer span.End()

	doc, err := s.documents.GetByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to load document")
	}
	if doc == nil {
		return nil, errors.ErrDocumentNotFound.WithDetail(fmt.Sprintf("no document with id %s", id))
	}
	return doc, nil
}

// ListTemplates 返回目录内全部可用模板的规范化标题。
func (s *Service) ListTemplates(ctx context.Context) ([]string, error) {
	ctx, span := serviceTracer.Start(ctx, "docgen.ListTemplates")
	defer span.End()

	titles, err := s.resolver.KnownTitles(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to list template catalog")
	}
	return titles, nil
}

// RefreshTemplates 使标题清单缓存失效并返回最新目录。
// 供运维在带外增删目录条目后调用，省得等缓存 TTL 到期。
func (s *Service) RefreshTemplates(ctx context.Context) ([]string, error) {
	ctx, span := serviceTracer.Start(ctx, "docgen.RefreshTemplates")
	defer span.End()

	titles, err := s.resolver.RefreshCatalog(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to refresh template catalog")
	}
	return titles, nil
}

// ListDocuments 分页列出制品。
func (s *Service) ListDocuments(ctx context.Context, pagination repository.Pagination) (*repository.PagedResult[*entity.GeneratedDocument], error) {
	ctx, span := serviceTracer.Start(ctx, "docgen.ListDocuments")
	defer span.End()

	return s.documents.List(ctx, pagination)
}
