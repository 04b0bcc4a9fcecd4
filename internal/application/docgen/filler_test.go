package docgen

import (
	"context"
	"strings"
	"testing"

	"legal-assist-ai-api/internal/domain/entity"
	"legal-assist-ai-api/internal/workflow/prompt"
)

func TestFormatResponses(t *testing.T) {
	responses := map[string]string{
		"effectiveDate":   "2026-01-01",
		"disclosingParty": "Acme Corp",
		"receivingParty":  "Jane Smith",
	}

	got := formatResponses(responses)
	want := "disclosingParty: Acme Corp\neffectiveDate: 2026-01-01\nreceivingParty: Jane Smith\n"
	if got != want {
		t.Errorf("formatResponses = %q, want %q", got, want)
	}

	// map 迭代序不稳定，输出必须可复现
	for i := 0; i < 10; i++ {
		if formatResponses(responses) != want {
			t.Fatal("formatResponses is not deterministic")
		}
	}
}

func TestFillReturnsModelOutputVerbatim(t *testing.T) {
	content := "NON-DISCLOSURE AGREEMENT\n\n1. Parties. Acme Corp and [REQUIRES REVIEW: receiving party address missing].\n"
	cm := &fakeChatModel{content: content}
	f := NewFiller(&fakeFactory{cm: cm}, prompt.NewRegistry(), testConfig())

	got, err := f.Fill(context.Background(), &entity.Template{Title: "NDA"}, map[string]string{
		"disclosingParty": "Acme Corp",
	})
	if err != nil {
		t.Fatalf("Fill returned error: %v", err)
	}
	if got != content {
		t.Errorf("Fill output modified the model response:\ngot  %q\nwant %q", got, content)
	}
	if !strings.Contains(got, ReviewMarker) {
		t.Errorf("review marker should survive verbatim, got %q", got)
	}
}

func TestFillSendsSortedResponses(t *testing.T) {
	cm := &fakeChatModel{content: "doc"}
	f := NewFiller(&fakeFactory{cm: cm}, prompt.NewRegistry(), testConfig())

	_, err := f.Fill(context.Background(), &entity.Template{Title: "Lease"}, map[string]string{
		"zipCode":  "94105",
		"landlord": "Acme Properties",
	})
	if err != nil {
		t.Fatalf("Fill returned error: %v", err)
	}

	if len(cm.requests) != 1 {
		t.Fatalf("LLM call count = %d, want 1", len(cm.requests))
	}
	userMsg := cm.requests[0][len(cm.requests[0])-1].Content
	li, zi := strings.Index(userMsg, "landlord:"), strings.Index(userMsg, "zipCode:")
	if li < 0 || zi < 0 {
		t.Fatalf("prompt missing responses, got %q", userMsg)
	}
	if li > zi {
		t.Errorf("responses should be sorted by fieldName, got %q", userMsg)
	}
}
