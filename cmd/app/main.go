// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/qdrant/go-client/qdrant"

	"video-ai-tutor/internal/application"
	"video-ai-tutor/internal/config"
	"video-ai-tutor/internal/domain/ports/adapter"
	aiAdapters "video-ai-tutor/internal/infra/adapters/ai"
	"video-ai-tutor/internal/infra/adapters/embedding"
	"video-ai-tutor/internal/infra/adapters/image"
	"video-ai-tutor/internal/infra/adapters/speech"
	"video-ai-tutor/internal/infra/adapters/video"
	"video-ai-tutor/internal/infra/chatlog"
	"video-ai-tutor/internal/infra/chunker"
	httpapi "video-ai-tutor/internal/infra/http"
	"video-ai-tutor/internal/infra/logging"
	"video-ai-tutor/internal/infra/metrics"
	red "video-ai-tutor/internal/infra/redis"
	"video-ai-tutor/internal/infra/vector"
	"video-ai-tutor/internal/infra/worker"
	"video-ai-tutor/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (noop AI fallback, relaxed validation)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("[DEV MODE] Enabled")
	}
	metrics.MustRegister()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	progressRepo := red.NewProgressRepo(redisClient, cfg.Redis.TTL)

	// ---- Chat adapter (Gemini -> OpenAI -> noop in dev) ----
	var ai adapter.AIServiceAdapter
	switch {
	case cfg.AI.GeminiKey != "":
		ai, err = aiAdapters.NewGeminiAdapter(ctx, cfg.AI.GeminiKey, cfg.AI.GeminiURL, cfg.AI.ChatModel)
		if err != nil {
			logger.Fatal().Err(err).Msg("gemini adapter")
		}
		logger.Info().Str("model", cfg.AI.ChatModel).Msg("chat adapter: Gemini")
	case cfg.AI.OpenAIKey != "":
		ai, err = aiAdapters.NewOpenAIAdapter(cfg.AI.OpenAIKey, cfg.AI.ChatModel)
		if err != nil {
			logger.Fatal().Err(err).Msg("openai adapter")
		}
		logger.Info().Str("model", cfg.AI.ChatModel).Msg("chat adapter: OpenAI")
	case cfg.Runtime.Dev:
		ai = aiAdapters.NewNoopAIAdapter()
		logger.Warn().Msg("chat adapter: noop (dev mode, no provider key)")
	default:
		logger.Fatal().Msg("no AI provider configured: set ai.openai_key or ai.gemini_key")
	}

	// ---- Speech + embeddings (OpenAI only) ----
	embedder, err := embedding.NewOpenAIEmbedder(cfg.AI.OpenAIKey, cfg.AI.EmbeddingModel)
	if err != nil {
		logger.Fatal().Err(err).Msg("embedder")
	}
	stt, err := speech.NewWhisperAdapter(cfg.AI.OpenAIKey, cfg.AI.TranscribeModel)
	if err != nil {
		logger.Fatal().Err(err).Msg("whisper adapter")
	}
	tts, err := speech.NewTTSAdapter(cfg.AI.OpenAIKey, cfg.AI.SpeechModel)
	if err != nil {
		logger.Fatal().Err(err).Msg("tts adapter")
	}

	// ---- Qdrant ----
	qc, err := qdrant.NewClient(&qdrant.Config{Host: cfg.Vector.Host, Port: cfg.Vector.Port})
	if err != nil {
		logger.Fatal().Err(err).Msg("qdrant")
	}
	index := vector.NewQdrantStore(qc, embedder, cfg.Vector.CollectionPrefix, logger)

	// ---- Ingestion pieces ----
	yt := video.NewYouTubeAdapter()
	topics := video.NewYouTubeTopicSearch("")
	split, err := chunker.NewTokenChunker(cfg.Ingest.ChunkTokens, cfg.Ingest.ChunkOverlap)
	if err != nil {
		logger.Fatal().Err(err).Msg("chunker")
	}
	if err := os.MkdirAll(cfg.Ingest.WorkDir, 0o755); err != nil {
		logger.Fatal().Err(err).Msg("work dir")
	}

	// ---- Chat log + image ----
	chatLog, err := chatlog.NewFileChatLog(cfg.Storage.ChatLogDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("chat log")
	}
	var img adapter.ImageGenAdapter = image.Disabled{}
	if cfg.Image.APIKey != "" {
		img, err = image.NewIdeogramAdapter(cfg.Image.APIKey, cfg.Image.Endpoint)
		if err != nil {
			logger.Fatal().Err(err).Msg("image adapter")
		}
	} else {
		logger.Warn().Msg("image.api_key not set; mindmap images disabled")
	}

	// ---- Use cases ----
	runner := worker.NewRunner(logger)
	ingestUC := usecase.NewIngestUseCase(
		yt, yt, stt, topics, split,
		index, progressRepo, runner,
		cfg.Ingest.WorkDir, cfg.Ingest.TopicLimit, logger,
	)
	sessions := usecase.NewSessionStore()
	agentUC := usecase.NewAgentUseCase(ai, img, index, chatLog, sessions, cfg.AI.ChatModel, logger)

	// ---- Facade + HTTP ----
	facade := application.New(ingestUC, agentUC, tts, cfg.AI.SpeechVoice, logger)
	srv := httpapi.NewServer(facade, cfg.Ingest.WorkDir, logger)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: srv.Router(),
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	cancel()
	runner.Wait()
}
