package docgen

import (
	"context"
	"testing"

	"legal-assist-ai-api/internal/domain/entity"
	"legal-assist-ai-api/internal/workflow/prompt"
	"legal-assist-ai-api/pkg/errors"
)

func TestExtractJSONArray(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"bare array", `[{"id":"q1"}]`, `[{"id":"q1"}]`, true},
		{"fenced", "```json\n[1,2]\n```", "[1,2]", true},
		{"prose around", "Here are the questions:\n[1]\nHope this helps!", "[1]", true},
		{"no array", "sorry, I cannot do that", "", false},
		{"only open bracket", "here [ it goes", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractJSONArray(tt.in)
			if ok != tt.ok {
				t.Fatalf("extractJSONArray(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("extractJSONArray(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func validQuestionsJSON() string {
	return `[
		{"id":"q1","question":"Full legal name of the disclosing party?","fieldName":"disclosingParty","required":true},
		{"id":"q2","question":"Full legal name of the receiving party?","fieldName":"receivingParty","required":true},
		{"id":"q3","question":"Effective date of the agreement?","fieldName":"effectiveDate","required":true},
		{"id":"q4","question":"Term of confidentiality in years?","fieldName":"termYears","required":true},
		{"id":"q5","question":"Governing law jurisdiction?","fieldName":"governingLaw","required":false}
	]`
}

func TestParseQuestions(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", validQuestionsJSON(), false},
		{"valid with prose", "Sure!\n" + validQuestionsJSON() + "\nLet me know.", false},
		{"no array", "I cannot help with that.", true},
		{"malformed json", `[{"id":"q1",]`, true},
		{"too few", `[{"id":"q1","question":"a","fieldName":"a","required":true}]`, true},
		{"duplicate id", `[
			{"id":"q1","question":"a","fieldName":"a","required":true},
			{"id":"q1","question":"b","fieldName":"b","required":true},
			{"id":"q3","question":"c","fieldName":"c","required":true},
			{"id":"q4","question":"d","fieldName":"d","required":true},
			{"id":"q5","question":"e","fieldName":"e","required":true}
		]`, true},
		{"duplicate fieldName", `[
			{"id":"q1","question":"a","fieldName":"a","required":true},
			{"id":"q2","question":"b","fieldName":"a","required":true},
			{"id":"q3","question":"c","fieldName":"c","required":true},
			{"id":"q4","question":"d","fieldName":"d","required":true},
			{"id":"q5","question":"e","fieldName":"e","required":true}
		]`, true},
		{"empty fieldName", `[
			{"id":"q1","question":"a","fieldName":"","required":true},
			{"id":"q2","question":"b","fieldName":"b","required":true},
			{"id":"q3","question":"c","fieldName":"c","required":true},
			{"id":"q4","question":"d","fieldName":"d","required":true},
			{"id":"q5","question":"e","fieldName":"e","required":true}
		]`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			questions, err := parseQuestions(tt.raw, 5, 10)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(questions) != 5 {
				t.Errorf("question count = %d, want 5", len(questions))
			}
		})
	}
}

func TestParseQuestionsCountBounds(t *testing.T) {
	// 数量区间是闭区间，5 和 10 都合法，11 越界
	eleven := `[
		{"id":"q1","question":"a","fieldName":"f1","required":true},
		{"id":"q2","question":"b","fieldName":"f2","required":true},
		{"id":"q3","question":"c","fieldName":"f3","required":true},
		{"id":"q4","question":"d","fieldName":"f4","required":true},
		{"id":"q5","question":"e","fieldName":"f5","required":true},
		{"id":"q6","question":"f","fieldName":"f6","required":true},
		{"id":"q7","question":"g","fieldName":"f7","required":true},
		{"id":"q8","question":"h","fieldName":"f8","required":true},
		{"id":"q9","question":"i","fieldName":"f9","required":true},
		{"id":"q10","question":"j","fieldName":"f10","required":true},
		{"id":"q11","question":"k","fieldName":"f11","required":true}
	]`
	if _, err := parseQuestions(eleven, 5, 10); err == nil {
		t.Error("expected error for 11 questions with max 10")
	}
}

func TestSchemaGeneratorGenerate(t *testing.T) {
	cm := &fakeChatModel{content: "Here you go:\n" + validQuestionsJSON()}
	g := NewSchemaGenerator(&fakeFactory{cm: cm}, prompt.NewRegistry(), testConfig())

	questions, err := g.Generate(context.Background(), &entity.Template{Title: "NDA", NormalizedTitle: "nda"})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if len(questions) != 5 {
		t.Fatalf("question count = %d, want 5", len(questions))
	}
	if questions[0].FieldName != "disclosingParty" {
		t.Errorf("first fieldName = %s, want disclosingParty", questions[0].FieldName)
	}
	if len(cm.requests) != 1 {
		t.Fatalf("LLM call count = %d, want 1", len(cm.requests))
	}
}

func TestSchemaGeneratorRejectsBadOutput(t *testing.T) {
	cm := &fakeChatModel{content: "I'm sorry, I can't produce that."}
	g := NewSchemaGenerator(&fakeFactory{cm: cm}, prompt.NewRegistry(), testConfig())

	_, err := g.Generate(context.Background(), &entity.Template{Title: "NDA", NormalizedTitle: "nda"})
	if err == nil {
		t.Fatal("expected error for unparseable output")
	}
	if errors.AsAppError(err).Code != errors.CodeSchemaParseFailed {
		t.Errorf("error code = %s, want %s", errors.AsAppError(err).Code, errors.CodeSchemaParseFailed)
	}
}
