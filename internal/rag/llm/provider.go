package llm

import "context"

// Provider is the single external generation call in the question hot path.
// It receives the fully assembled prompt context and returns the answer text;
// it never performs retrieval of its own.
type Provider interface {
	Generate(ctx context.Context, question string, contextText string) (string, error)
}
