package embedding

import "context"

// Embedder turns text into the fixed-dimension vectors the index stores.
// Query and document embedding go through the same implementation so the two
// sides of the similarity comparison always share one vector space.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}
