package prompt

import (
	"fmt"
	"strings"

	"github.com/nvarma/ers-rag/internal/domain/commonModels"
)

// TemplateVersion identifies the prompt layout below. Bump it when the block
// format or instruction wording changes, so answer regressions can be tied to
// a prompt change.
const TemplateVersion = "v1"

// BuildContext renders the retrieved chunks into the labelled context block
// the model cites from, and produces the parallel citation list: exactly one
// citation per passage, in passage order.
func BuildContext(results []commonModels.RetrievedChunk) (string, []commonModels.Citation) {
	var b strings.Builder
	citations := make([]commonModels.Citation, 0, len(results))

	for i, r := range results {
		fmt.Fprintf(&b, "\n[Source %d: %s - Page %s - %s]\n%s\n",
			i+1, r.Meta.Source, r.Meta.Page, r.Meta.Type, r.Content)
		citations = append(citations, commonModels.CitationFor(r.Meta))
	}
	return b.String(), citations
}

// Build assembles the single-turn generation prompt. The strict variant
// instructs the model to answer only from the excerpts and to say so when
// they do not cover the question; the lenient variant keeps the layout
// without the refusal clause.
func Build(question string, contextText string, strict bool) string {
	instruction := "Based on the following document excerpts, answer the question accurately and comprehensively."
	if strict {
		instruction += " Answer only from the excerpts, include concrete figures and findings when present," +
			" and state explicitly when the excerpts do not cover the answer."
	}
	return fmt.Sprintf("%s\n\nDOCUMENTS:\n%s\n\nQUESTION: %s\n\nANSWER:", instruction, contextText, question)
}
