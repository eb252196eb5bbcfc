package googleEmbedding

import (
	"github.com/nvarma/ers-rag/pkg/logx"
	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func getContent(texts []string) []*genai.Content {
	contents := make([]*genai.Content, 0, len(texts))
	for _, text := range texts {
		contents = append(contents, &genai.Content{
			Parts: []*genai.Part{{Text: text}},
		})
	}
	return contents
}

// shouldRetry matches the one transient failure worth a single retry: the
// embedding quota being momentarily exhausted.
func shouldRetry(err error, log *logx.Logger) bool {
	if s, ok := status.FromError(err); ok && s.Code() == codes.ResourceExhausted {
		log.Warn("embedding rate limit hit", "error", err)
		return true
	}
	return false
}
