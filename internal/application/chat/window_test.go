package chat

import (
	"fmt"
	"testing"

	"legal-assist-ai-api/internal/domain/entity"
)

func TestWindowAppendEvicts(t *testing.T) {
	w := &Window{}
	maxTurns := 10

	for i := 0; i < 8; i++ {
		w.Append(entity.RoleUser, fmt.Sprintf("q%d", i), maxTurns)
		w.Append(entity.RoleAssistant, fmt.Sprintf("a%d", i), maxTurns)
	}

	if len(w.Turns) != maxTurns {
		t.Fatalf("window size = %d, want %d", len(w.Turns), maxTurns)
	}
	// 淘汰最旧消息后，最早保留的应是第 3 轮的提问
	if w.Turns[0].Content != "q3" {
		t.Errorf("oldest turn = %q, want q3", w.Turns[0].Content)
	}
	if w.Turns[len(w.Turns)-1].Content != "a7" {
		t.Errorf("newest turn = %q, want a7", w.Turns[len(w.Turns)-1].Content)
	}
}

func TestWindowAppendUnbounded(t *testing.T) {
	w := &Window{}
	for i := 0; i < 30; i++ {
		w.Append(entity.RoleUser, "q", 0)
	}
	if len(w.Turns) != 30 {
		t.Errorf("window with maxTurns 0 should not evict, size = %d", len(w.Turns))
	}
}

func TestWindowToMessages(t *testing.T) {
	w := &Window{}
	w.Append(entity.RoleUser, "what is an NDA?", 10)
	w.Append(entity.RoleAssistant, "a confidentiality agreement", 10)

	msgs := w.ToMessages("you are a legal assistant")
	if len(msgs) != 3 {
		t.Fatalf("message count = %d, want 3", len(msgs))
	}
	if msgs[0].Role != "system" || msgs[0].Content != "you are a legal assistant" {
		t.Errorf("first message should be the system prompt, got role=%s content=%q", msgs[0].Role, msgs[0].Content)
	}
	if msgs[1].Role != "user" {
		t.Errorf("second message role = %s, want user", msgs[1].Role)
	}
	if msgs[2].Role != "assistant" {
		t.Errorf("third message role = %s, want assistant", msgs[2].Role)
	}
}

func TestWindowToMessagesNoSystem(t *testing.T) {
	w := &Window{}
	w.Append(entity.RoleUser, "hello", 10)

	msgs := w.ToMessages("")
	if len(msgs) != 1 {
		t.Fatalf("message count = %d, want 1", len(msgs))
	}
	if msgs[0].Role != "user" {
		t.Errorf("message role = %s, want user", msgs[0].Role)
	}
}
