package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = "traceId"

	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5

	//vector index
	CollectionName                      = "ers_documents"
	EmbeddingOutputDimensionality int32 = 1536
	GoogleEmbeddingModel                = "gemini-embedding-001"
	OpenAIEmbeddingModel                = "text-embedding-3-small"
	QdrantHost                          = "127.0.0.1"
	QdrantGrpcPort                      = 6334
	QdrantUseTLS                        = false
	QdrantPoolSize                      = 1

	//ingestion
	DefaultChunksPath = "chunks.jsonl"
	IngestBatchSize   = 50

	//retrieval
	DefaultTopK          = 3
	FilterOverfetchLimit = 10

	//generation
	ClaudeModelName    = "claude-haiku-4-5-20251001"
	MaxAnswerTokens    = 1024
	CostPerQuestionUSD = 0.002

	// StrictGrounding controls how hard the prompt pushes the model to stay
	// inside the retrieved excerpts. Lenient mode keeps the template but drops
	// the refusal instruction.
	StrictGrounding = true

	//per-question stage timeouts
	RetrievalTimeout  = 30 * time.Second
	GenerationTimeout = 60 * time.Second

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 60 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	ServerListenAddr = ":3000"

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second
)

// Environment-provided settings. Secrets never live in this file.

func AnthropicAPIKey() string {
	return os.Getenv("ANTHROPIC_API_KEY")
}

func GoogleAPIKey() string {
	return os.Getenv("GOOGLE_API_KEY")
}

func OpenAIAPIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

// EmbeddingProvider selects the embedder implementation: "google" (default) or "openai".
func EmbeddingProvider() string {
	if p := os.Getenv("EMBEDDING_PROVIDER"); p != "" {
		return p
	}
	return "google"
}

func ChunksPath() string {
	if p := os.Getenv("CHUNKS_PATH"); p != "" {
		return p
	}
	return DefaultChunksPath
}

func QdrantEndpoint() (string, int) {
	host := os.Getenv("QDRANT_HOST")
	port, err := strconv.Atoi(os.Getenv("QDRANT_PORT"))
	if host == "" || err != nil {
		return QdrantHost, QdrantGrpcPort
	}
	return host, port
}
