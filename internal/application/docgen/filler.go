package docgen

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"legal-assist-ai-api/internal/config"
	"legal-assist-ai-api/internal/domain/entity"
	"legal-assist-ai-api/internal/workflow/prompt"
	"legal-assist-ai-api/pkg/errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var fillerTracer = otel.Tracer("docgen.filler")

// ReviewMarker 模型在缺失或推断信息处插入的审查标记前缀
const ReviewMarker = "[REQUIRES REVIEW:"

// Filler 文书填充器
// 把用户答案交给模型产出完整文书正文。模型输出原样返回，
// 包括其中的 [REQUIRES REVIEW: ...] 标记，由人工审查环节处理。
type Filler struct {
	factory  ChatModelFactory
	prompts  *prompt.Registry
	provider string
	model    string
}

// NewFiller 创建文书填充器
func NewFiller(factory ChatModelFactory, prompts *prompt.Registry, cfg *config.Config) *Filler {
	provider := cfg.LLM.DefaultProvider
	modelName := ""
	if p, ok := cfg.LLM.Providers[provider]; ok {
		modelName = p.Model
	}
	return &Filler{
		factory:  factory,
		prompts:  prompts,
		provider: provider,
		model:    modelName,
	}
}

// Fill 用答案填充模板，返回完整文书正文。
func (f *Filler) Fill(ctx context.Context, tpl *entity.Template, responses map[string]string) (string, error) {
	ctx, span := fillerTracer.Start(ctx, "filler.Fill",
		trace.WithAttributes(
			attribute.String("template.title", tpl.Title),
			attribute.Int("responses.count", len(responses)),
		))
	defer span.End()

	chatTpl, err := f.prompts.ChatTemplate(prompt.PromptDocumentFillV1)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeInternalError, "failed to load document fill prompt")
	}

	msgs, err := chatTpl.Format(ctx, map[string]any{
		"document_title":  tpl.Title,
		"responses_block": formatResponses(responses),
	})
	if err != nil {
		return "", errors.Wrap(err, errors.CodeInternalError, "failed to format document fill prompt")
	}

	cm, err := f.factory.Default(ctx)
	if err != nil {
		return "", errors.ErrLLMCallFailed.WithError(err)
	}

	resp, err := generateWithMetrics(ctx, cm, f.provider, f.model, msgs)
	if err != nil {
		span.RecordError(err)
		return "", errors.ErrLLMCallFailed.WithError(err)
	}

	span.SetAttributes(
		attribute.Int("document.content_length", len(resp.Content)),
		attribute.Bool("document.requires_review", strings.Contains(resp.Content, ReviewMarker)),
	)
	return resp.Content, nil
}

// formatResponses 把答案渲染为按 fieldName 排序的行，保证提示词可复现。
func formatResponses(responses map[string]string) string {
	fields := make([]string, 0, len(responses))
	for field := range responses {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var b strings.Builder
	for _, field := range fields {
		fmt.Fprintf(&b, "%s: %s\n", field, responses[field])
	}
	return b.String()
}
