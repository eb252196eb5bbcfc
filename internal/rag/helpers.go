package rag

import (
	"fmt"

	"github.com/nvarma/ers-rag/internal/domain/commonModels"
)

// filterBySource scans the ranked candidate set in order, keeping only hits
// from the requested document, and stops at k matches. An empty result is a
// valid outcome, not an error: it means the document holds nothing relevant.
func filterBySource(candidates []commonModels.RetrievedChunk, source string, k int) []commonModels.RetrievedChunk {
	filtered := make([]commonModels.RetrievedChunk, 0, k)
	for _, c := range candidates {
		if c.Meta.Source != source {
			continue
		}
		filtered = append(filtered, c)
		if len(filtered) >= k {
			break
		}
	}
	return filtered
}

func noResultsMessage(filterSource string) string {
	if filterSource != "" {
		return fmt.Sprintf("No relevant information found in '%s' about your question.", filterSource)
	}
	return "No relevant documents found for your question. Try asking about a different topic or search across all documents."
}
