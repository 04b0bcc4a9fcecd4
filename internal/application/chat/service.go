package chat

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"legal-assist-ai-api/internal/config"
	"legal-assist-ai-api/internal/domain/entity"
	"legal-assist-ai-api/internal/domain/repository"
	"legal-assist-ai-api/internal/workflow/prompt"
	"legal-assist-ai-api/pkg/errors"
	"legal-assist-ai-api/pkg/logger"
	"legal-assist-ai-api/pkg/metrics"

	"github.com/cloudwego/eino/components/model"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var chatTracer = otel.Tracer("chat.service")

// 回复来源
const (
	SourceCache = "cache"
	SourceLLM   = "llm"
)

// ChatModelFactory 按名称提供 ChatModel 客户端
type ChatModelFactory interface {
	Get(ctx context.Context, name string) (model.BaseChatModel, error)
	Default(ctx context.Context) (model.BaseChatModel, error)
}

// Reply 一次对话轮次的结果
type Reply struct {
	SessionID string `json:"session_id"`
	Response  string `json:"response"`
	Source    string `json:"source"`
	// CreateDoc 回复较长时置位，提示前端可转入文书生成流程
	CreateDoc bool `json:"create_doc"`
}

// Service 缓存优先的对话服务
// 相同提问（规范化后精确匹配）直接返回最早缓存的回复，不再调模型；
// 未命中才走模型，并把问答对追加进缓存。缓存与窗口的写入都是尽力而为：
// 先把回复交给用户，持久化失败只记录。
type Service struct {
	cacheRepo repository.ChatCacheRepository
	windows   WindowStore
	factory   ChatModelFactory
	cfg       *config.ChatConfig

	systemPrompt string
	provider     string
	model        string

	mu    sync.Mutex
	locks map[string]*sessionLock
}

// sessionLock 会话级互斥锁，带引用计数，空闲即从 map 回收
type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// NewService 创建对话服务
func NewService(
	cacheRepo repository.ChatCacheRepository,
	windows WindowStore,
	factory ChatModelFactory,
	prompts *prompt.Registry,
	cfg *config.Config,
) (*Service, error) {
	systemPrompt, err := prompts.SystemText(prompt.PromptLegalChatV1)
	if err != nil {
		return nil, err
	}

	provider := cfg.LLM.DefaultProvider
	modelName := ""
	if p, ok := cfg.LLM.Providers[provider]; ok {
		modelName = p.Model
	}

	return &Service{
		cacheRepo:    cacheRepo,
		windows:      windows,
		factory:      factory,
		cfg:          &cfg.Chat,
		systemPrompt: systemPrompt,
		provider:     provider,
		model:        modelName,
		locks:        make(map[string]*sessionLock),
	}, nil
}

// NormalizeQuery 提问的缓存匹配键：去首尾空白、转小写。
func NormalizeQuery(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Ask 处理一轮对话。sessionID 为空时开启新会话。
func (s *Service) Ask(ctx context.Context, sessionID, message string) (*Reply, error) {
	if strings.TrimSpace(message) == "" {
		return nil, errors.ErrInvalidParam.WithDetail("message is empty")
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	ctx = logger.WithContext(ctx, logger.SessionIDKey, sessionID)

	ctx, span := chatTracer.Start(ctx, "chat.Ask",
		trace.WithAttributes(attribute.String("chat.session_id", sessionID)))
	defer span.End()

	// 同一会话的轮次串行化，窗口的读改写不竞争
	lock := s.acquireSession(sessionID)
	defer s.releaseSession(sessionID, lock)

	normalized := NormalizeQuery(message)

	response, source, err := s.resolveResponse(ctx, sessionID, normalized, message)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("chat.source", source))
	metrics.ChatTurnsTotal.WithLabelValues(source).Inc()

	// 回复已定，以下持久化全部尽力而为
	s.persistWindow(ctx, sessionID, message, response)
	if source == SourceLLM {
		if appendErr := s.cacheRepo.Append(ctx, entity.NewCachedQuery(normalized, response)); appendErr != nil {
			metrics.PersistenceFailures.WithLabelValues("cached_query").Inc()
			logger.Error(ctx, "failed to append chat cache entry", appendErr)
		}
	}

	return &Reply{
		SessionID: sessionID,
		Response:  response,
		Source:    source,
		CreateDoc: utf8.RuneCountInString(response) > s.cfg.CreateDocThreshold,
	}, nil
}

// resolveResponse 先查缓存，未命中再调模型。
// 缓存查询出错按未命中处理，缓存故障不拖垮对话。
func (s *Service) resolveResponse(ctx context.Context, sessionID, normalized, message string) (string, string, error) {
	cached, err := s.cacheRepo.FindExact(ctx, normalized)
	if err != nil {
		metrics.ChatCacheLookups.WithLabelValues("error").Inc()
		logger.Warn(ctx, "chat cache lookup failed, falling back to model", "error", err.Error())
	} else if cached != nil {
		metrics.ChatCacheLookups.WithLabelValues("hit").Inc()
		return cached.Response, SourceCache, nil
	} else {
		metrics.ChatCacheLookups.WithLabelValues("miss").Inc()
	}

	window, err := s.windows.Load(ctx, sessionID)
	if err != nil {
		logger.Warn(ctx, "failed to load chat window, starting empty", "error", err.Error())
		window = &Window{}
	}

	// 新的用户消息也计入窗口上限，传给模型的历史不会超限
	window.Append(entity.RoleUser, message, s.cfg.WindowPairs*2)
	msgs := window.ToMessages(s.systemPrompt)

	cm, err := s.factory.Default(ctx)
	if err != nil {
		return "", "", errors.ErrLLMCallFailed.WithError(err)
	}

	start := time.Now()
	resp, err := cm.Generate(ctx, msgs)
	metrics.LLMCallDuration.WithLabelValues(s.provider, s.model).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.LLMCallTotal.WithLabelValues(s.provider, s.model, "error").Inc()
		return "", "", errors.ErrLLMCallFailed.WithError(err)
	}
	metrics.LLMCallTotal.WithLabelValues(s.provider, s.model, "success").Inc()

	if resp.ResponseMeta != nil && resp.ResponseMeta.Usage != nil {
		usage := resp.ResponseMeta.Usage
		metrics.LLMTokensUsed.WithLabelValues(s.provider, s.model, "prompt").Add(float64(usage.PromptTokens))
		metrics.LLMTokensUsed.WithLabelValues(s.provider, s.model, "completion").Add(float64(usage.CompletionTokens))
	}

	return resp.Content, SourceLLM, nil
}

// persistWindow 把本轮问答写回会话窗口。缓存命中的轮次同样计入窗口。
func (s *Service) persistWindow(ctx context.Context, sessionID, message, response string) {
	window, err := s.windows.Load(ctx, sessionID)
	if err != nil {
		logger.Warn(ctx, "failed to reload chat window before save", "error", err.Error())
		window = &Window{}
	}

	maxTurns := s.cfg.WindowPairs * 2
	window.Append(entity.RoleUser, message, maxTurns)
	window.Append(entity.RoleAssistant, response, maxTurns)

	if err := s.windows.Save(ctx, sessionID, window); err != nil {
		metrics.PersistenceFailures.WithLabelValues("chat_window").Inc()
		logger.Error(ctx, "failed to save chat window", err)
	}
}

// acquireSession 取会话锁并加锁，按需创建。
// 引用计数记录等待者，锁空闲时 releaseSession 会把条目从 map 删掉，
// map 的大小只随并发中的会话数走，不随历史会话数累积。
func (s *Service) acquireSession(sessionID string) *sessionLock {
	s.mu.Lock()
	lock, ok := s.locks[sessionID]
	if !ok {
		lock = &sessionLock{}
		s.locks[sessionID] = lock
	}
	lock.refs++
	s.mu.Unlock()

	lock.mu.Lock()
	return lock
}

// releaseSession 解锁并在没有等待者时回收锁条目。
func (s *Service) releaseSession(sessionID string, lock *sessionLock) {
	lock.mu.Unlock()

	s.mu.Lock()
	lock.refs--
	if lock.refs == 0 {
		delete(s.locks, sessionID)
	}
	s.mu.Unlock()
}
