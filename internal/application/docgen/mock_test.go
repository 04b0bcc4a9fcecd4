package docgen

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"legal-assist-ai-api/internal/domain/entity"
	"legal-assist-ai-api/internal/domain/repository"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

type fakeTemplateRepo struct {
	templates []*entity.Template
	findErr   error
}

func (f *fakeTemplateRepo) FindByNormalizedTitles(ctx context.Context, titles []string) ([]*entity.Template, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	want := make(map[string]struct{}, len(titles))
	for _, t := range titles {
		want[t] = struct{}{}
	}
	var matches []*entity.Template
	for _, tpl := range f.templates {
		if _, ok := want[tpl.NormalizedTitle]; ok {
			matches = append(matches, tpl)
		}
	}
	return matches, nil
}

func (f *fakeTemplateRepo) ListNormalizedTitles(ctx context.Context) ([]string, error) {
	titles := make([]string, 0, len(f.templates))
	for _, tpl := range f.templates {
		titles = append(titles, tpl.NormalizedTitle)
	}
	return titles, nil
}

// fakeCatalogCache 直通 loader 的目录缓存；err 置位时整层故障
type fakeCatalogCache struct {
	err         error
	loads       int
	invalidated int
}

func (f *fakeCatalogCache) GetOrLoadSafe(ctx context.Context, key string, ttl time.Duration, loader func() (interface{}, error)) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.loads++
	value, err := loader()
	if err != nil {
		return nil, err
	}
	return json.Marshal(value)
}

func (f *fakeCatalogCache) InvalidateCatalog(ctx context.Context) error {
	if f.err != nil {
		return f.err
	}
	f.invalidated++
	return nil
}

type fakeDocumentRepo struct {
	created   []*entity.GeneratedDocument
	createErr error
}

func (f *fakeDocumentRepo) Create(ctx context.Context, doc *entity.GeneratedDocument) error {
	if f.createErr != nil {
		return f.createErr
	}
	if doc.ID == "" {
		doc.ID = fmt.Sprintf("doc-%d", len(f.created)+1)
	}
	f.created = append(f.created, doc)
	return nil
}

func (f *fakeDocumentRepo) GetByID(ctx context.Context, id string) (*entity.GeneratedDocument, error) {
	for _, doc := range f.created {
		if doc.ID == id {
			return doc, nil
		}
	}
	return nil, fmt.Errorf("document not found: %s", id)
}

func (f *fakeDocumentRepo) List(ctx context.Context, pagination repository.Pagination) (*repository.PagedResult[*entity.GeneratedDocument], error) {
	return repository.NewPagedResult(f.created, int64(len(f.created)), pagination), nil
}

// fakeChatModel 返回固定内容的 ChatModel
type fakeChatModel struct {
	content  string
	err      error
	requests [][]*schema.Message
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	f.requests = append(f.requests, input)
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.content, nil), nil
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, fmt.Errorf("stream not supported")
}

type fakeFactory struct {
	cm *fakeChatModel
}

func (f *fakeFactory) Get(ctx context.Context, name string) (model.BaseChatModel, error) {
	return f.cm, nil
}

func (f *fakeFactory) Default(ctx context.Context) (model.BaseChatModel, error) {
	return f.cm, nil
}
