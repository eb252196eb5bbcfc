package claude

import (
	"context"
	"errors"
	"sync"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/nvarma/ers-rag/internal/config"
	"github.com/nvarma/ers-rag/internal/rag/llm"
	"github.com/nvarma/ers-rag/internal/rag/prompt"
	"github.com/nvarma/ers-rag/pkg/logx"
)

var (
	logger *logx.Logger
	once   sync.Once
	shared *llmClient
)

type llmClient struct {
	api   anthropic.Client
	model string
}

// GetClaudeClient builds the shared Anthropic client once per process.
// Returns nil when no API key is configured.
func GetClaudeClient(apikey string, modelName string) llm.Provider {
	once.Do(func() {
		logger = logx.NewLogger("llm_claude")
		if apikey == "" {
			logger.Error("missing Anthropic API key")
			return
		}
		shared = &llmClient{
			api:   anthropic.NewClient(option.WithAPIKey(apikey)),
			model: modelName,
		}
		logger.Info("Claude client created", "model", modelName)
	})

	if shared == nil {
		return nil
	}
	return shared
}

// Generate sends exactly one single-turn request: one user message carrying
// the composed prompt, capped at the configured output token budget. The
// prompt instructs the model to answer only from the supplied excerpts and to
// say so when they do not cover the question.
func (c *llmClient) Generate(ctx context.Context, question string, contextText string) (string, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	composed := prompt.Build(question, contextText, config.StrictGrounding)

	message, err := c.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: config.MaxAnswerTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(composed)),
		},
	})
	if err != nil {
		log.Error("Claude call failed", "error", err)
		return "", err
	}

	for _, block := range message.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			return text.Text, nil
		}
	}
	return "", errors.New("no text segment in model response")
}
