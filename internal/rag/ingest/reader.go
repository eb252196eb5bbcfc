package ingest

import (
	"bufio"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/google/uuid"
	"github.com/nvarma/ers-rag/internal/domain/commonModels"
	"github.com/nvarma/ers-rag/pkg/logx"
)

// maxLineBytes bounds a single chunk record line. Chunks are pre-segmented
// upstream so anything near this size is a producer bug, not real data.
const maxLineBytes = 1 << 20

type rawChunk struct {
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata"`
}

// StreamRecords reads line-delimited chunk JSON from r and hands each parsed
// record to fn. The stream is never buffered whole: one line is in memory at a
// time. A malformed line is skipped and counted, it never aborts the run.
// Returns (records parsed, records skipped).
func StreamRecords(r io.Reader, log *logx.Logger, fn func(commonModels.ChunkRecord) error) (int, int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	parsed, skipped, lineNo := 0, 0, 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var raw rawChunk
		if err := json.Unmarshal(line, &raw); err != nil {
			skipped++
			log.Warn("skipping malformed chunk record", "line", lineNo, "error", err)
			continue
		}

		record := normalize(raw)
		if err := fn(record); err != nil {
			return parsed, skipped, err
		}
		parsed++
	}
	if err := scanner.Err(); err != nil {
		return parsed, skipped, fmt.Errorf("reading chunk stream: %w", err)
	}
	return parsed, skipped, nil
}

func normalize(raw rawChunk) commonModels.ChunkRecord {
	meta := commonModels.ChunkMetadata{
		Source: metaString(raw.Metadata, "source", "Unknown"),
		Page:   metaString(raw.Metadata, "page", "Unknown"),
		Type:   metaString(raw.Metadata, "type", "text"),
	}
	key := ChunkKey(raw.Content, meta)
	return commonModels.ChunkRecord{
		Key:     key,
		PointID: PointID(key),
		Content: raw.Content,
		Meta:    meta,
	}
}

// metaString coerces a metadata value to string. Page numbers arrive both as
// JSON strings and as numbers depending on the upstream chunker.
func metaString(m map[string]any, key string, fallback string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return fallback
	}
	switch t := v.(type) {
	case string:
		if t == "" {
			return fallback
		}
		return t
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// hashPrefixRunes is the content prefix fed into the identity hash. Truncating
// keeps hashing cheap and ids short; two distinct long chunks colliding on
// identical (source, page, type) plus an identical 400-rune prefix is accepted
// for a curated corpus.
const hashPrefixRunes = 400

// ChunkKey derives the stable content-addressed identifier
// {source}|p{page}|{type}|{sha1 hex of the content prefix}.
// Identical inputs always yield the same key, which is what makes
// re-ingestion an upsert instead of a duplicate insert.
func ChunkKey(content string, meta commonModels.ChunkMetadata) string {
	prefix := content
	if runes := []rune(content); len(runes) > hashPrefixRunes {
		prefix = string(runes[:hashPrefixRunes])
	}
	digest := sha1.Sum([]byte(prefix))
	return fmt.Sprintf("%s|p%s|%s|%x", meta.Source, meta.Page, meta.Type, digest)
}

// PointID maps a chunk key onto the UUID keyspace the vector index requires.
// uuid.NewSHA1 is deterministic, so the idempotence of the key carries over.
func PointID(key string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key)).String()
}

// CollectSources extracts the distinct source document names from the chunk
// stream, sorted. Malformed lines are skipped the same way ingestion skips
// them.
func CollectSources(r io.Reader, log *logx.Logger) ([]string, error) {
	seen := make(map[string]struct{})
	_, _, err := StreamRecords(r, log, func(rec commonModels.ChunkRecord) error {
		seen[rec.Meta.Source] = struct{}{}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sources := make([]string, 0, len(seen))
	for s := range seen {
		sources = append(sources, s)
	}
	sort.Strings(sources)
	return sources, nil
}
