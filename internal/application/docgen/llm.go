package docgen

import (
	"context"
	"time"

	"legal-assist-ai-api/pkg/metrics"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// ChatModelFactory 按名称提供 ChatModel 客户端
type ChatModelFactory interface {
	Get(ctx context.Context, name string) (model.BaseChatModel, error)
	Default(ctx context.Context) (model.BaseChatModel, error)
}

// generateWithMetrics 调用 ChatModel 并记录时延、调用数与 token 用量。
func generateWithMetrics(ctx context.Context, cm model.BaseChatModel, provider, modelName string, msgs []*schema.Message) (*schema.Message, error) {
	start := time.Now()
	resp, err := cm.Generate(ctx, msgs)
	metrics.LLMCallDuration.WithLabelValues(provider, modelName).Observe(time.Since(start).Seconds())

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.LLMCallTotal.WithLabelValues(provider, modelName, status).Inc()

	if err == nil && resp.ResponseMeta != nil && resp.ResponseMeta.Usage != nil {
		usage := resp.ResponseMeta.Usage
		metrics.LLMTokensUsed.WithLabelValues(provider, modelName, "prompt").Add(float64(usage.PromptTokens))
		metrics.LLMTokensUsed.WithLabelValues(provider, modelName, "completion").Add(float64(usage.CompletionTokens))
	}

	return resp, err
}

// extractJSONArray 从模型输出中截取首个 '[' 到最后一个 ']' 之间的内容。
// 模型偶尔会在 JSON 前后附带说明文字或代码围栏，截取后再交给解析器；
// 截取不到或解析失败都视为模式错误，不做进一步修复。
func extractJSONArray(raw string) (string, bool) {
	start := -1
	for i, r := range raw {
		if r == '[' {
			start = i
			break
		}
	}
	if start < 0 {
		return "", false
	}
	end := -1
	for i := len(raw) - 1; i > start; i-- {
		if raw[i] == ']' {
			end = i
			break
		}
	}
	if end < 0 {
		return "", false
	}
	return raw[start : end+1], true
}
