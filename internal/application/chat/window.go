// Package chat 实现缓存优先的法律问答服务
package chat

import (
	"legal-assist-ai-api/internal/domain/entity"

	"github.com/cloudwego/eino/schema"
)

// Turn 上下文窗口中的一条消息
type Turn struct {
	Role    entity.Role `json:"role"`
	Content string      `json:"content"`
}

// Window 会话的滚动上下文窗口
// 只保留最近 maxTurns 条消息（maxTurns = 2 × 轮次对数），
// 旧消息从头部淘汰。窗口按会话隔离，互不可见。
type Window struct {
	Turns []Turn `json:"turns"`
}

// Append 追加一条消息并按上限淘汰最旧的消息。
func (w *Window) Append(role entity.Role, content string, maxTurns int) {
	w.Turns = append(w.Turns, Turn{Role: role, Content: content})
	if maxTurns > 0 && len(w.Turns) > maxTurns {
		w.Turns = w.Turns[len(w.Turns)-maxTurns:]
	}
}

// ToMessages 把窗口展开为模型消息序列，system 提示词在最前。
func (w *Window) ToMessages(systemPrompt string) []*schema.Message {
	msgs := make([]*schema.Message, 0, len(w.Turns)+1)
	if systemPrompt != "" {
		msgs = append(msgs, schema.SystemMessage(systemPrompt))
	}
	for _, t := range w.Turns {
		switch t.Role {
		case entity.RoleAssistant:
			msgs = append(msgs, schema.AssistantMessage(t.Content, nil))
		default:
			msgs = append(msgs, schema.UserMessage(t.Content))
		}
	}
	return msgs
}
