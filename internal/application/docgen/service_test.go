package docgen

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"testing"

	"legal-assist-ai-api/internal/domain/entity"
	"legal-assist-ai-api/internal/workflow/prompt"
)

func newTestService(cm *fakeChatModel, docs *fakeDocumentRepo) *Service {
	cfg := testConfig()
	repo := &fakeTemplateRepo{templates: []*entity.Template{
		{ID: "t1", Title: "NDA.pdf", NormalizedTitle: "nda.pdf"},
	}}
	factory := &fakeFactory{cm: cm}
	prompts := prompt.NewRegistry()

	return NewService(
		NewResolver(repo, nil, cfg),
		NewSchemaGenerator(factory, prompts, cfg),
		NewFiller(factory, prompts, cfg),
		NewPDFRenderer(),
		docs,
	)
}

func TestGenerateDocument(t *testing.T) {
	content := "NON-DISCLOSURE AGREEMENT\n\n1. Parties. Acme Corp and Jane Smith."
	cm := &fakeChatModel{content: content}
	docs := &fakeDocumentRepo{}
	svc := newTestService(cm, docs)

	doc, err := svc.GenerateDocument(context.Background(), "NDA", map[string]string{
		"disclosingParty": "Acme Corp",
		"receivingParty":  "Jane Smith",
	})
	if err != nil {
		t.Fatalf("GenerateDocument returned error: %v", err)
	}

	if doc.Title != "NDA.pdf" {
		t.Errorf("document title = %s, want NDA.pdf (catalog title)", doc.Title)
	}
	if doc.Content != content {
		t.Errorf("document content = %q, want model output verbatim", doc.Content)
	}

	pdfBytes, err := base64.StdEncoding.DecodeString(doc.PDFBase64)
	if err != nil {
		t.Fatalf("PDFBase64 is not valid base64: %v", err)
	}
	if !strings.HasPrefix(string(pdfBytes[:5]), "%PDF-") {
		t.Error("decoded PDF does not start with PDF header")
	}

	if len(docs.created) != 1 {
		t.Fatalf("persisted document count = %d, want 1", len(docs.created))
	}
	if !strings.Contains(string(docs.created[0].Responses), "Acme Corp") {
		t.Error("persisted responses should carry the original answers")
	}
}

func TestGenerateDocumentPersistFailureStillReturns(t *testing.T) {
	cm := &fakeChatModel{content: "doc body"}
	docs := &fakeDocumentRepo{createErr: fmt.Errorf("connection refused")}
	svc := newTestService(cm, docs)

	doc, err := svc.GenerateDocument(context.Background(), "nda", map[string]string{"a": "b"})
	if err != nil {
		t.Fatalf("persist failure must not fail the request, got %v", err)
	}
	if doc.Content != "doc body" {
		t.Errorf("document content = %q, want %q", doc.Content, "doc body")
	}
}

func TestGenerateDocumentUnknownTemplate(t *testing.T) {
	cm := &fakeChatModel{content: "doc"}
	svc := newTestService(cm, &fakeDocumentRepo{})

	_, err := svc.GenerateDocument(context.Background(), "divorce petition", map[string]string{"a": "b"})
	if err == nil {
		t.Fatal("expected error for unknown template")
	}
	if len(cm.requests) != 0 {
		t.Errorf("LLM must not be called when resolution fails, calls = %d", len(cm.requests))
	}
}

func TestGenerateQuestions(t *testing.T) {
	cm := &fakeChatModel{content: validQuestionsJSON()}
	svc := newTestService(cm, &fakeDocumentRepo{})

	schema, err := svc.GenerateQuestions(context.Background(), "NDA")
	if err != nil {
		t.Fatalf("GenerateQuestions returned error: %v", err)
	}
	if schema.TemplateID != "t1" {
		t.Errorf("template ID = %s, want t1", schema.TemplateID)
	}
	if len(schema.Questions) != 5 {
		t.Errorf("question count = %d, want 5", len(schema.Questions))
	}
}
