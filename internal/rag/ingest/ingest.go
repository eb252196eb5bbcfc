package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/nvarma/ers-rag/internal/config"
	"github.com/nvarma/ers-rag/internal/domain/commonModels"
	"github.com/nvarma/ers-rag/internal/metrics"
	"github.com/nvarma/ers-rag/internal/rag/embedding"
	"github.com/nvarma/ers-rag/internal/rag/vectorDB"
	"github.com/nvarma/ers-rag/pkg/logx"
)

// ErrSourceUnavailable means the chunk stream could not be opened at all.
// Startup must treat this as fatal: serving queries against an absent or
// partial index is worse than refusing to start.
var ErrSourceUnavailable = errors.New("ingestion source unavailable")

var (
	bootOnce   sync.Once
	bootResult Result
	bootErr    error
)

// Result is what the one-time bootstrap hands the rest of the process.
type Result struct {
	// Sources is the distinct document list derived from the chunk stream,
	// independent of the index contents.
	Sources []string
	// ChunksIndexed is 0 when an existing index was reused.
	ChunksIndexed int
	// Reused reports whether the persisted collection was kept as-is.
	Reused bool
}

type Pipeline struct {
	store     vectorDB.DataStore
	embedder  embedding.Embedder
	batchSize int
	logger    *logx.Logger
}

func NewPipeline(store vectorDB.DataStore, embedder embedding.Embedder) *Pipeline {
	return &Pipeline{
		store:     store,
		embedder:  embedder,
		batchSize: config.IngestBatchSize,
		logger:    logx.NewLogger("Ingestion"),
	}
}

// Bootstrap performs the load-or-build decision exactly once per process:
// reuse a compatible non-empty collection, rebuild on not-found or schema
// mismatch, and fail on anything else. Concurrent callers share the first
// outcome.
func (p *Pipeline) Bootstrap(ctx context.Context) (Result, error) {
	bootOnce.Do(func() {
		bootResult, bootErr = p.bootstrap(ctx)
	})
	return bootResult, bootErr
}

func (p *Pipeline) bootstrap(ctx context.Context) (Result, error) {
	path := config.ChunksPath()

	sources, err := p.listSources(path)
	if err != nil {
		return Result{}, err
	}

	openErr := p.store.Open(ctx)
	switch {
	case openErr == nil:
		count, err := p.store.Count(ctx)
		if err != nil {
			return Result{}, fmt.Errorf("counting persisted index: %w", err)
		}
		if count > 0 {
			p.logger.Info("Reusing persisted index", "entries", count)
			return Result{Sources: sources, Reused: true}, nil
		}
		p.logger.Info("Persisted index is empty, ingesting")

	case errors.Is(openErr, vectorDB.ErrCollectionNotFound),
		errors.Is(openErr, vectorDB.ErrSchemaMismatch):
		p.logger.Warn("Rebuilding index", "reason", openErr)

	default:
		// Anything else smells like corruption or an unreachable store.
		// Report it instead of papering over it with a rebuild.
		return Result{}, fmt.Errorf("opening persisted index: %w", openErr)
	}

	if err := p.store.EnsureCollection(ctx); err != nil {
		return Result{}, fmt.Errorf("creating collection: %w", err)
	}

	indexed, err := p.IngestFile(ctx, path)
	if err != nil {
		return Result{}, err
	}
	metrics.SetChunksIndexed(indexed)
	return Result{Sources: sources, ChunksIndexed: indexed}, nil
}

// IngestFile streams the chunk file into the index in fixed-size batches.
// Re-running it against the same file leaves the index unchanged: every chunk
// carries a content-addressed key, so the write is an upsert, not an insert.
// Returns the number of chunks handed to the index.
func (p *Pipeline) IngestFile(ctx context.Context, path string) (int, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("document_ingestion", time.Since(start)) }()

	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, path, err)
	}
	defer f.Close()

	batch := make([]commonModels.ChunkRecord, 0, p.batchSize)
	total := 0

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := p.upsertBatch(ctx, batch); err != nil {
			return err
		}
		total += len(batch)
		batch = batch[:0]
		return nil
	}

	parsed, skipped, err := StreamRecords(f, p.logger, func(rec commonModels.ChunkRecord) error {
		batch = append(batch, rec)
		if len(batch) >= p.batchSize {
			return flush()
		}
		return nil
	})
	if err != nil {
		return total, err
	}
	if err := flush(); err != nil {
		return total, err
	}

	p.logger.Info("Ingestion complete", "chunks", total, "parsed", parsed, "skippedRecords", skipped)
	return total, nil
}

func (p *Pipeline) upsertBatch(ctx context.Context, batch []commonModels.ChunkRecord) error {
	texts := make([]string, len(batch))
	for i, rec := range batch {
		texts[i] = rec.Content
	}

	embedStart := time.Now()
	vectors, err := p.embedder.EmbedBatch(ctx, texts)
	metrics.CaptureExecutionMetrics("embedding", time.Since(embedStart))
	if err != nil {
		return fmt.Errorf("embedding batch failed: %w", err)
	}

	if err := p.store.UpsertBatch(ctx, batch, vectors); err != nil {
		return fmt.Errorf("upserting batch failed: %w", err)
	}
	return nil
}

// listSources reads the distinct document names once, straight from the chunk
// stream. The list is intentionally independent of what the index holds.
func (p *Pipeline) listSources(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, path, err)
	}
	defer f.Close()
	return CollectSources(f, p.logger)
}
