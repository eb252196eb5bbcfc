package openaiEmbedding

import (
	"context"
	"errors"
	"sync"

	"github.com/nvarma/ers-rag/internal/config"
	"github.com/nvarma/ers-rag/internal/customHttpClient"
	"github.com/nvarma/ers-rag/internal/rag/embedding"
	"github.com/nvarma/ers-rag/pkg/logx"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var (
	logger *logx.Logger
	once   sync.Once
	shared *client
)

type client struct {
	api   openai.Client
	model string
}

// GetOpenAIEmbeddingClient builds the shared OpenAI embedding client once per
// process. It is the alternative to the Google embedder, selected with
// EMBEDDING_PROVIDER=openai. Returns nil when no API key is configured.
func GetOpenAIEmbeddingClient(modelName string, apikey string) embedding.Embedder {
	once.Do(func() {
		logger = logx.NewLogger("openai_embedding")
		if apikey == "" {
			logger.Error("missing OpenAI API key")
			return
		}
		shared = &client{
			api:   openai.NewClient(option.WithAPIKey(apikey), option.WithHTTPClient(customHttpClient.PooledClient())),
			model: modelName,
		}
		logger.Info("OpenAI embedding client created", "model", modelName)
	})

	if shared == nil {
		return nil
	}
	return shared
}

func (c *client) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (c *client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := c.api.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input:      openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model:      openai.EmbeddingModel(c.model),
		Dimensions: openai.Int(int64(config.EmbeddingOutputDimensionality)),
	})
	if err != nil {
		logger.Error("Error getting embeddings from OpenAI", "error", err)
		return nil, err
	}
	if len(resp.Data) != len(texts) {
		return nil, errors.New("embedding count does not match input count")
	}

	vectors := make([][]float32, len(texts))
	for _, d := range resp.Data {
		vec := make([]float32, len(d.Embedding))
		for i, v := range d.Embedding {
			vec[i] = float32(v)
		}
		vectors[d.Index] = vec
	}
	return vectors, nil
}
