package docgen

import (
	"context"
	"strings"
	"testing"
)

func TestRenderProducesPDF(t *testing.T) {
	r := NewPDFRenderer()

	content := "1. Parties.\nThis agreement is between Acme Corp and Jane Smith.\n\n2. Term.\nFive years from the effective date."
	pdf, err := r.Render(context.Background(), "nda", "NDA", content)
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if len(pdf) == 0 {
		t.Fatal("Render returned empty output")
	}
	if !strings.HasPrefix(string(pdf[:5]), "%PDF-") {
		t.Errorf("output does not start with PDF header, got %q", string(pdf[:5]))
	}
}

func TestRenderLongContentPaginates(t *testing.T) {
	r := NewPDFRenderer()

	// 正文远超一页，自动分页不应报错
	long := strings.Repeat("Clause text that wraps across the page and keeps going. ", 500)
	pdf, err := r.Render(context.Background(), "lease", "Lease Agreement", long)
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if len(pdf) == 0 {
		t.Fatal("Render returned empty output")
	}
}

func TestRenderEmptyContent(t *testing.T) {
	r := NewPDFRenderer()

	pdf, err := r.Render(context.Background(), "nda", "NDA", "")
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if len(pdf) == 0 {
		t.Fatal("Render returned empty output for empty content")
	}
}
