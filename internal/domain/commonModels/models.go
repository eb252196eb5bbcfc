package commonModels

import "time"

// ChunkMetadata is the fixed provenance record carried by every chunk.
// Absent fields are normalized at ingestion time, not defaulted ad hoc at
// query time: Source/Page fall back to "Unknown", Type falls back to "text".
type ChunkMetadata struct {
	Source string `json:"source"`
	Page   string `json:"page"`
	Type   string `json:"type"`
}

// ChunkRecord is one pre-chunked passage from the ingestion stream.
// Key is the content-addressed identifier derived by the hasher; PointID is
// its deterministic UUID form used as the vector index key.
type ChunkRecord struct {
	Key     string
	PointID string
	Content string
	Meta    ChunkMetadata
}

// RetrievedChunk is one ranked similarity hit, most similar first.
type RetrievedChunk struct {
	Content string
	Meta    ChunkMetadata
	Score   float32
}

// Citation is the provenance projection attached 1:1 to each context passage
// used in an answer, in prompt order.
type Citation struct {
	Source string `json:"source"`
	Page   string `json:"page"`
	Type   string `json:"type"`
}

type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ChatMessage is one entry of the append-only session history.
type ChatMessage struct {
	Role    ChatRole   `json:"role"`
	Content string     `json:"content"`
	Sources []Citation `json:"sources,omitempty"`
	At      time.Time  `json:"at"`
}

// CitationFor projects a chunk's metadata into a citation.
func CitationFor(meta ChunkMetadata) Citation {
	return Citation{Source: meta.Source, Page: meta.Page, Type: meta.Type}
}
