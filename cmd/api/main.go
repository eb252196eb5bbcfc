package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/nvarma/ers-rag/internal/config"
	"github.com/nvarma/ers-rag/internal/handlers"
	"github.com/nvarma/ers-rag/internal/rag"
	"github.com/nvarma/ers-rag/internal/rag/embedding"
	"github.com/nvarma/ers-rag/internal/rag/embedding/googleEmbedding"
	"github.com/nvarma/ers-rag/internal/rag/embedding/openaiEmbedding"
	"github.com/nvarma/ers-rag/internal/rag/ingest"
	"github.com/nvarma/ers-rag/internal/rag/llm/claude"
	"github.com/nvarma/ers-rag/internal/rag/vectorDB/qdrantDB"
	"github.com/nvarma/ers-rag/internal/server"
	"github.com/nvarma/ers-rag/internal/session"
	"github.com/nvarma/ers-rag/pkg/logx"
)

var listenAddr string

func main() {
	logx.Init()
	logger := logx.NewLogger("main")

	// .env is optional, real deployments set the environment directly
	if err := godotenv.Load(); err == nil {
		logger.Debug("Loaded environment from .env")
	}

	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.Parse()

	if err := validateConfiguration(); err != nil {
		logger.Error("Startup configuration invalid", "error", err)
		os.Exit(1)
	}

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	vectorStore := qdrantDB.GetQdrantClient(serviceContext)
	embedder := buildEmbedder(serviceContext)
	llmProvider := claude.GetClaudeClient(config.AnthropicAPIKey(), config.ClaudeModelName)

	if vectorStore == nil || embedder == nil || llmProvider == nil {
		logger.Error("One or more external services failed to initialize. Shutting down.",
			"vectorStore", vectorStore != nil, "embedder", embedder != nil, "llmProvider", llmProvider != nil)
		return
	}

	// Load-or-build happens exactly once, before the server accepts questions.
	pipeline := ingest.NewPipeline(vectorStore, embedder)
	boot, err := pipeline.Bootstrap(serviceContext)
	if err != nil {
		logger.Error("Index bootstrap failed, refusing to serve", "error", err)
		os.Exit(1)
	}
	logger.Info("Index ready", "documents", len(boot.Sources), "chunksIndexed", boot.ChunksIndexed, "reusedIndex", boot.Reused)

	sessions := session.NewStore()
	ragService := rag.NewService(vectorStore, llmProvider, embedder, sessions, boot.Sources)
	handlers.InitHandlers(ragService)

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	go server.ShutDownHandler(server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		CloseServices:    closeExternalServices,
	})
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}

func validateConfiguration() error {
	if config.AnthropicAPIKey() == "" {
		return fmt.Errorf("%w: ANTHROPIC_API_KEY", rag.ErrConfigurationMissing)
	}
	switch config.EmbeddingProvider() {
	case "google":
		if config.GoogleAPIKey() == "" {
			return fmt.Errorf("%w: GOOGLE_API_KEY", rag.ErrConfigurationMissing)
		}
	case "openai":
		if config.OpenAIAPIKey() == "" {
			return fmt.Errorf("%w: OPENAI_API_KEY", rag.ErrConfigurationMissing)
		}
	default:
		return fmt.Errorf("%w: unknown EMBEDDING_PROVIDER %q", rag.ErrConfigurationMissing, config.EmbeddingProvider())
	}
	if config.ChunksPath() == "" {
		return fmt.Errorf("%w: CHUNKS_PATH", rag.ErrConfigurationMissing)
	}
	return nil
}

func buildEmbedder(ctx context.Context) embedding.Embedder {
	if config.EmbeddingProvider() == "openai" {
		return openaiEmbedding.GetOpenAIEmbeddingClient(config.OpenAIEmbeddingModel, config.OpenAIAPIKey())
	}
	return googleEmbedding.GetGoogleEmbeddingClient(ctx, config.GoogleEmbeddingModel, config.GoogleAPIKey())
}
