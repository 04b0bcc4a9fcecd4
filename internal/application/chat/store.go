package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"legal-assist-ai-api/internal/infrastructure/persistence/redis"

	goredis "github.com/redis/go-redis/v9"
)

// WindowStore 会话窗口存储
type WindowStore interface {
	// Load 读取会话窗口；会话不存在时返回空窗口。
	Load(ctx context.Context, sessionID string) (*Window, error)
	// Save 写回会话窗口并续期。
	Save(ctx context.Context, sessionID string, window *Window) error
}

// RedisWindowStore 基于 Redis 的会话窗口存储
// 每个会话一个键，TTL 内无活动自动过期。
type RedisWindowStore struct {
	cache *redis.Cache
	ttl   time.Duration
}

// NewRedisWindowStore 创建 Redis 会话窗口存储
func NewRedisWindowStore(cache *redis.Cache, ttl time.Duration) *RedisWindowStore {
	return &RedisWindowStore{
		cache: cache,
		ttl:   ttl,
	}
}

func windowKey(sessionID string) string {
	return fmt.Sprintf("chat:window:%s", sessionID)
}

// Load 读取会话窗口。
func (s *RedisWindowStore) Load(ctx context.Context, sessionID string) (*Window, error) {
	raw, err := s.cache.Get(ctx, windowKey(sessionID))
	if err != nil {
		if err == goredis.Nil {
			return &Window{}, nil
		}
		return nil, fmt.Errorf("failed to load chat window: %w", err)
	}

	var window Window
	if err := json.Unmarshal(raw, &window); err != nil {
		return nil, fmt.Errorf("failed to unmarshal chat window: %w", err)
	}
	return &window, nil
}

// Save 写回会话窗口。
func (s *RedisWindowStore) Save(ctx context.Context, sessionID string, window *Window) error {
	return s.cache.Set(ctx, windowKey(sessionID), window, s.ttl)
}
