package docgen

import (
	"context"
	"encoding/json"
	"fmt"

	"legal-assist-ai-api/internal/config"
	"legal-assist-ai-api/internal/domain/entity"
	"legal-assist-ai-api/internal/workflow/prompt"
	"legal-assist-ai-api/pkg/errors"
	"legal-assist-ai-api/pkg/logger"
	"legal-assist-ai-api/pkg/metrics"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var schemaTracer = otel.Tracer("docgen.schema")

// Question 填充问卷中的一个问题
type Question struct {
	ID        string `json:"id"`
	Question  string `json:"question"`
	FieldName string `json:"fieldName"`
	Required  bool   `json:"required"`
}

// SchemaGenerator 问题清单生成器
// 清单由模型产出，这里只做截取、解析与校验，不做任何修复：
// 不合格的输出直接报错，让调用方重试。
type SchemaGenerator struct {
	factory  ChatModelFactory
	prompts  *prompt.Registry
	cfg      *config.DocGenConfig
	provider string
	model    string
}

// NewSchemaGenerator 创建问题清单生成器
func NewSchemaGenerator(factory ChatModelFactory, prompts *prompt.Registry, cfg *config.Config) *SchemaGenerator {
	provider := cfg.LLM.DefaultProvider
	modelName := ""
	if p, ok := cfg.LLM.Providers[provider]; ok {
		modelName = p.Model
	}
	return &SchemaGenerator{
		factory:  factory,
		prompts:  prompts,
		cfg:      &cfg.DocGen,
		provider: provider,
		model:    modelName,
	}
}

// Generate 为指定模板产出问题清单。
// 清单数量必须落在配置区间内，id 与 fieldName 各自唯一。
func (g *SchemaGenerator) Generate(ctx context.Context, tpl *entity.Template) ([]Question, error) {
	ctx, span := schemaTracer.Start(ctx, "schema.Generate",
		trace.WithAttributes(attribute.String("template.title", tpl.Title)))
	defer span.End()

	chatTpl, err := g.prompts.ChatTemplate(prompt.PromptQuestionSchemaV1)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternalError, "failed to load question schema prompt")
	}

	msgs, err := chatTpl.Format(ctx, map[string]any{
		"document_title": tpl.Title,
		"min_questions":  g.cfg.MinQuestions,
		"max_questions":  g.cfg.MaxQuestions,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternalError, "failed to format question schema prompt")
	}

	cm, err := g.factory.Default(ctx)
	if err != nil {
		return nil, errors.ErrLLMCallFailed.WithError(err)
	}

	resp, err := generateWithMetrics(ctx, cm, g.provider, g.model, msgs)
	if err != nil {
		span.RecordError(err)
		return nil, errors.ErrLLMCallFailed.WithError(err)
	}

	questions, err := parseQuestions(resp.Content, g.cfg.MinQuestions, g.cfg.MaxQuestions)
	if err != nil {
		span.RecordError(err)
		logger.Warn(ctx, "question schema output rejected",
			"template", tpl.Title, "reason", err.Error())
		// Detail 携带原始输出，排查提示词问题时不用翻日志
		return nil, errors.ErrSchemaParseFailed.WithDetail(
			fmt.Sprintf("%s; raw output: %s", err.Error(), truncate(resp.Content, 500)))
	}

	span.SetAttributes(attribute.Int("schema.question_count", len(questions)))
	metrics.SchemaQuestionCount.WithLabelValues(tpl.NormalizedTitle).Observe(float64(len(questions)))
	return questions, nil
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// parseQuestions 截取并校验模型输出的 JSON 数组。
func parseQuestions(raw string, minCount, maxCount int) ([]Question, error) {
	payload, ok := extractJSONArray(raw)
	if !ok {
		return nil, fmt.Errorf("no JSON array found in model output")
	}

	var questions []Question
	if err := json.Unmarshal([]byte(payload), &questions); err != nil {
		return nil, fmt.Errorf("invalid JSON array: %w", err)
	}

	if len(questions) < minCount || len(questions) > maxCount {
		return nil, fmt.Errorf("question count %d outside allowed range [%d, %d]", len(questions), minCount, maxCount)
	}

	seenIDs := make(map[string]struct{}, len(questions))
	seenFields := make(map[string]struct{}, len(questions))
	for i, q := range questions {
		if q.ID == "" || q.Question == "" || q.FieldName == "" {
			return nil, fmt.Errorf("question %d has empty id, question or fieldName", i)
		}
		if _, dup := seenIDs[q.ID]; dup {
			return nil, fmt.Errorf("duplicate question id %q", q.ID)
		}
		if _, dup := seenFields[q.FieldName]; dup {
			return nil, fmt.Errorf("duplicate fieldName %q", q.FieldName)
		}
		seenIDs[q.ID] = struct{}{}
		seenFields[q.FieldName] = struct{}{}
	}

	return questions, nil
}
