package rag_test

import (
	"context"

	"github.com/nvarma/ers-rag/internal/domain/commonModels"
)

// MockDataStore implements vectorDB.DataStore
type MockDataStore struct {
	OnOpen             func(ctx context.Context) error
	OnEnsureCollection func(ctx context.Context) error
	OnUpsertBatch      func(ctx context.Context, chunks []commonModels.ChunkRecord, vectors [][]float32) error
	OnQuery            func(ctx context.Context, vector []float32, limit uint64) ([]commonModels.RetrievedChunk, error)
	OnCount            func(ctx context.Context) (uint64, error)
}

func (m *MockDataStore) Open(ctx context.Context) error {
	if m.OnOpen != nil {
		return m.OnOpen(ctx)
	}
	return nil
}

func (m *MockDataStore) EnsureCollection(ctx context.Context) error {
	if m.OnEnsureCollection != nil {
		return m.OnEnsureCollection(ctx)
	}
	return nil
}

func (m *MockDataStore) UpsertBatch(ctx context.Context, chunks []commonModels.ChunkRecord, vectors [][]float32) error {
	if m.OnUpsertBatch != nil {
		return m.OnUpsertBatch(ctx, chunks, vectors)
	}
	return nil
}

func (m *MockDataStore) Query(ctx context.Context, vector []float32, limit uint64) ([]commonModels.RetrievedChunk, error) {
	if m.OnQuery != nil {
		return m.OnQuery(ctx, vector, limit)
	}
	return nil, nil
}

func (m *MockDataStore) Count(ctx context.Context) (uint64, error) {
	if m.OnCount != nil {
		return m.OnCount(ctx)
	}
	return 0, nil
}

// MockEmbedder implements embedding.Embedder
type MockEmbedder struct {
	OnEmbed      func(ctx context.Context, text string) ([]float32, error)
	OnEmbedBatch func(ctx context.Context, texts []string) ([][]float32, error)
}

func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if m.OnEmbed != nil {
		return m.OnEmbed(ctx, text)
	}
	return []float32{0.1}, nil
}

func (m *MockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if m.OnEmbedBatch != nil {
		return m.OnEmbedBatch(ctx, texts)
	}
	return make([][]float32, len(texts)), nil
}

// MockLLM implements llm.Provider
type MockLLM struct {
	OnGenerate func(ctx context.Context, question string, contextText string) (string, error)
}

func (m *MockLLM) Generate(ctx context.Context, question string, contextText string) (string, error) {
	if m.OnGenerate != nil {
		return m.OnGenerate(ctx, question, contextText)
	}
	return "mocked llm response", nil
}

func chunk(source string, page string, typ string, content string) commonModels.RetrievedChunk {
	return commonModels.RetrievedChunk{
		Content: content,
		Meta:    commonModels.ChunkMetadata{Source: source, Page: page, Type: typ},
	}
}
