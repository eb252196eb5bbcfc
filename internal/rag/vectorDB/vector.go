package vectorDB

import (
	"context"
	"errors"

	"github.com/nvarma/ers-rag/internal/domain/commonModels"
)

// Open failures are split so the bootstrap can decide what is rebuildable.
// Not-found and schema mismatch trigger a rebuild; anything else is surfaced
// as-is instead of being silently masked by a rebuild.
var (
	ErrCollectionNotFound = errors.New("collection not found")
	ErrSchemaMismatch     = errors.New("collection schema mismatch")
)

// DataStore is the similarity-search collection the pipeline writes to and
// queries. Entries are keyed by chunk point ID; UpsertBatch overwrites on key
// collision, which is what makes ingestion idempotent.
type DataStore interface {
	// Open verifies an existing collection is present and compatible with the
	// configured vector schema. Returns ErrCollectionNotFound or
	// ErrSchemaMismatch when a rebuild is the right response.
	Open(ctx context.Context) error

	// EnsureCollection creates the collection if it does not exist.
	EnsureCollection(ctx context.Context) error

	// UpsertBatch writes one batch of chunks with their embedding vectors.
	UpsertBatch(ctx context.Context, chunks []commonModels.ChunkRecord, vectors [][]float32) error

	// Query returns up to limit nearest neighbours of the query vector,
	// ranked most similar first, with content and metadata from the payload.
	Query(ctx context.Context, vector []float32, limit uint64) ([]commonModels.RetrievedChunk, error)

	// Count reports how many entries the collection holds.
	Count(ctx context.Context) (uint64, error)
}
