package docgen

import (
	"context"
	"strings"
	"testing"

	"legal-assist-ai-api/internal/config"
	"legal-assist-ai-api/internal/domain/entity"
	"legal-assist-ai-api/pkg/errors"
)

func testConfig() *config.Config {
	return &config.Config{
		DocGen: config.DocGenConfig{
			DefaultExtension: ".pdf",
			MinQuestions:     5,
			MaxQuestions:     10,
		},
	}
}

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "nda", "nda"},
		{"uppercase", "NDA", "nda"},
		{"surrounding whitespace", "  Lease Agreement  ", "lease agreement"},
		{"pdf extension", "NDA.pdf", "nda"},
		{"docx extension", "Power of Attorney.DOCX", "power of attorney"},
		{"doc extension", "will.doc", "will"},
		{"txt extension", "demand letter.txt", "demand letter"},
		{"whitespace before extension", "NDA .pdf", "nda"},
		{"stacked extensions", "nda.pdf.pdf", "nda"},
		{"interior dot kept", "section 1.2 notice", "section 1.2 notice"},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeTitle(tt.in)
			if got != tt.want {
				t.Errorf("NormalizeTitle(%q) = %q, want %q", tt.in, got, tt.want)
			}
			// 归一化必须幂等，否则归一化后的键永远匹配不上目录里的归一化条目
			if again := NormalizeTitle(got); again != got {
				t.Errorf("NormalizeTitle not idempotent for %q: first %q, second %q", tt.in, got, again)
			}
		})
	}
}

func TestResolveSingleMatch(t *testing.T) {
	repo := &fakeTemplateRepo{templates: []*entity.Template{
		{ID: "t1", Title: "NDA.pdf", NormalizedTitle: "nda.pdf"},
		{ID: "t2", Title: "Lease Agreement", NormalizedTitle: "lease agreement"},
	}}
	r := NewResolver(repo, nil, testConfig())

	// 裸标题直接命中
	tpl, err := r.Resolve(context.Background(), "Lease Agreement")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if tpl.ID != "t2" {
		t.Errorf("resolved template ID = %s, want t2", tpl.ID)
	}

	// 目录里带扩展名的条目通过默认扩展名候选命中
	tpl, err = r.Resolve(context.Background(), "nda")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if tpl.ID != "t1" {
		t.Errorf("resolved template ID = %s, want t1", tpl.ID)
	}
}

func TestResolveNotFound(t *testing.T) {
	repo := &fakeTemplateRepo{templates: []*entity.Template{
		{ID: "t1", Title: "NDA", NormalizedTitle: "nda"},
	}}
	r := NewResolver(repo, nil, testConfig())

	_, err := r.Resolve(context.Background(), "employment contract")
	if err == nil {
		t.Fatal("expected error for unknown template")
	}
	appErr := errors.AsAppError(err)
	if appErr.Code != errors.CodeTemplateNotFound {
		t.Errorf("error code = %s, want %s", appErr.Code, errors.CodeTemplateNotFound)
	}
	if !strings.Contains(appErr.Detail, "nda") {
		t.Errorf("detail should list known templates, got %q", appErr.Detail)
	}
}

func TestResolveAmbiguous(t *testing.T) {
	// 同一规范化标题既有裸条目又有带扩展名条目
	repo := &fakeTemplateRepo{templates: []*entity.Template{
		{ID: "t1", Title: "NDA", NormalizedTitle: "nda"},
		{ID: "t2", Title: "nda.pdf", NormalizedTitle: "nda.pdf"},
	}}
	r := NewResolver(repo, nil, testConfig())

	_, err := r.Resolve(context.Background(), "NDA")
	if err == nil {
		t.Fatal("expected ambiguity error")
	}
	appErr := errors.AsAppError(err)
	if appErr.Code != errors.CodeTemplateAmbiguous {
		t.Errorf("error code = %s, want %s", appErr.Code, errors.CodeTemplateAmbiguous)
	}
	if !strings.Contains(appErr.Detail, "NDA") || !strings.Contains(appErr.Detail, "nda.pdf") {
		t.Errorf("detail should list colliding titles, got %q", appErr.Detail)
	}
}

func TestKnownTitlesCacheFailureFallsBack(t *testing.T) {
	repo := &fakeTemplateRepo{templates: []*entity.Template{
		{ID: "t1", Title: "NDA", NormalizedTitle: "nda"},
		{ID: "t2", Title: "Lease Agreement", NormalizedTitle: "lease agreement"},
	}}
	cache := &fakeCatalogCache{err: context.DeadlineExceeded}
	r := NewResolver(repo, cache, testConfig())

	// 缓存层故障直查数据库，不把错误往上抛
	titles, err := r.KnownTitles(context.Background())
	if err != nil {
		t.Fatalf("KnownTitles returned error despite healthy repository: %v", err)
	}
	if len(titles) != 2 {
		t.Fatalf("titles = %v, want 2 entries", titles)
	}

	// 未命中诊断同样不能因缓存故障而丢掉已知清单
	_, err = r.Resolve(context.Background(), "employment contract")
	appErr := errors.AsAppError(err)
	if appErr.Code != errors.CodeTemplateNotFound {
		t.Fatalf("error code = %s, want %s", appErr.Code, errors.CodeTemplateNotFound)
	}
	if !strings.Contains(appErr.Detail, "lease agreement") {
		t.Errorf("detail should list known templates with cache down, got %q", appErr.Detail)
	}
}

func TestRefreshCatalog(t *testing.T) {
	repo := &fakeTemplateRepo{templates: []*entity.Template{
		{ID: "t1", Title: "NDA", NormalizedTitle: "nda"},
	}}
	cache := &fakeCatalogCache{}
	r := NewResolver(repo, cache, testConfig())

	titles, err := r.RefreshCatalog(context.Background())
	if err != nil {
		t.Fatalf("RefreshCatalog returned error: %v", err)
	}
	if len(titles) != 1 || titles[0] != "nda" {
		t.Errorf("titles = %v, want [nda]", titles)
	}
	if cache.invalidated != 1 {
		t.Errorf("cache invalidations = %d, want 1", cache.invalidated)
	}

	// 无缓存时刷新退化为直查
	bare := NewResolver(repo, nil, testConfig())
	if _, err := bare.RefreshCatalog(context.Background()); err != nil {
		t.Errorf("RefreshCatalog without cache returned error: %v", err)
	}
}

func TestResolveEmptyTitle(t *testing.T) {
	r := NewResolver(&fakeTemplateRepo{}, nil, testConfig())

	_, err := r.Resolve(context.Background(), "   ")
	if err == nil {
		t.Fatal("expected error for empty title")
	}
	if errors.AsAppError(err).Code != errors.CodeInvalidParam {
		t.Errorf("error code = %s, want %s", errors.AsAppError(err).Code, errors.CodeInvalidParam)
	}
}
