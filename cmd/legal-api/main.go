// Package main 法律助手 API 服务入口
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"legal-assist-ai-api/internal/application/chat"
	"legal-assist-ai-api/internal/application/docgen"
	"legal-assist-ai-api/internal/config"
	"legal-assist-ai-api/internal/domain/entity"
	"legal-assist-ai-api/internal/infrastructure/llm"
	"legal-assist-ai-api/internal/infrastructure/persistence/postgres"
	redisinfra "legal-assist-ai-api/internal/infrastructure/persistence/redis"
	"legal-assist-ai-api/internal/interfaces/http/handler"
	"legal-assist-ai-api/internal/interfaces/http/router"
	einoobs "legal-assist-ai-api/internal/observability/eino"
	"legal-assist-ai-api/internal/workflow/prompt"
	"legal-assist-ai-api/pkg/logger"
	"legal-assist-ai-api/pkg/tracer"

	"github.com/joho/godotenv"
)

// Version 版本信息，构建时注入
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// 加载 .env 文件（如果存在）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(
		cfg.Observability.Logging.Level,
		cfg.Observability.Logging.Format,
	)

	ctx := context.Background()
	log := logger.FromContext(ctx)
	log.Info("starting legal-assist-ai-api",
		"version", Version,
		"build_time", BuildTime,
		"env", cfg.App.Env,
	)

	// 初始化追踪
	shutdown, err := tracer.Init(ctx, tracer.Config{
		ServiceName: cfg.App.Name,
		Endpoint:    cfg.Observability.Tracing.Endpoint,
		SampleRate:  cfg.Observability.Tracing.SampleRate,
		Enabled:     cfg.Observability.Tracing.Enabled,
	})
	if err != nil {
		log.Error("failed to init tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := shutdown(ctx); err != nil {
			log.Error("failed to shutdown tracer", "error", err)
		}
	}()

	// 初始化 Eino 全局 callbacks（模型调用追踪）
	einoobs.Init()

	// 基础设施
	pgClient, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		logger.Fatal(ctx, "failed to connect postgres", err)
	}
	defer pgClient.Close()

	if err := pgClient.Migrate(
		&entity.Template{},
		&entity.GeneratedDocument{},
		&entity.CachedQuery{},
	); err != nil {
		logger.Fatal(ctx, "failed to migrate database schema", err)
	}

	redisClient, err := redisinfra.NewClient(&cfg.Cache.Redis)
	if err != nil {
		logger.Fatal(ctx, "failed to connect redis", err)
	}
	defer redisClient.Close()

	cache := redisinfra.NewCache(redisClient)

	// 仓储
	templateRepo := postgres.NewTemplateRepository(pgClient)
	documentRepo := postgres.NewDocumentRepository(pgClient)
	chatCacheRepo := postgres.NewChatCacheRepository(pgClient)

	// LLM 与提示词
	llmFactory := llm.NewEinoFactory(cfg)
	prompts := prompt.NewRegistry()

	// 文书生成
	resolver := docgen.NewResolver(templateRepo, cache, cfg)
	schemaGen := docgen.NewSchemaGenerator(llmFactory, prompts, cfg)
	filler := docgen.NewFiller(llmFactory, prompts, cfg)
	renderer := docgen.NewPDFRenderer()
	docgenService := docgen.NewService(resolver, schemaGen, filler, renderer, documentRepo)

	// 对话
	windowStore := chat.NewRedisWindowStore(cache, cfg.Chat.WindowTTL)
	chatService, err := chat.NewService(chatCacheRepo, windowStore, llmFactory, prompts, cfg)
	if err != nil {
		logger.Fatal(ctx, "failed to initialize chat service", err)
	}

	// HTTP 层
	r := router.New(cfg, router.Handlers{
		Health:   handler.NewHealthHandler(pgClient, redisClient),
		Chat:     handler.NewChatHandler(chatService),
		Document: handler.NewDocumentHandler(docgenService),
		Template: handler.NewTemplateHandler(docgenService),
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.HTTP.Host, cfg.Server.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.HTTP.ReadTimeout,
		WriteTimeout: cfg.Server.HTTP.WriteTimeout,
		IdleTimeout:  cfg.Server.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("http server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", "error", err)
			os.Exit(1)
		}
	}()

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}

	log.Info("server exited")
}
