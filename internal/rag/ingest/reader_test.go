package ingest

import (
	"strings"
	"testing"

	"github.com/nvarma/ers-rag/internal/domain/commonModels"
	"github.com/nvarma/ers-rag/pkg/logx"
)

var testLog = logx.NewLogger("ingest-test")

func collect(t *testing.T, input string) ([]commonModels.ChunkRecord, int, int) {
	t.Helper()
	var records []commonModels.ChunkRecord
	parsed, skipped, err := StreamRecords(strings.NewReader(input), testLog, func(rec commonModels.ChunkRecord) error {
		records = append(records, rec)
		return nil
	})
	if err != nil {
		t.Fatalf("StreamRecords failed: %v", err)
	}
	return records, parsed, skipped
}

func TestStreamRecords_ParsesAndNormalizes(t *testing.T) {
	input := `{"content": "hello world", "metadata": {"source": "A.pdf", "page": "3", "type": "text"}}
{"content": "numeric page", "metadata": {"source": "B.pdf", "page": 7, "type": "table"}}

{"content": "bare"}
`
	records, parsed, skipped := collect(t, input)

	if parsed != 3 || skipped != 0 {
		t.Fatalf("parsed=%d skipped=%d, want 3/0", parsed, skipped)
	}
	if records[0].Meta != (commonModels.ChunkMetadata{Source: "A.pdf", Page: "3", Type: "text"}) {
		t.Errorf("record 0 metadata: %+v", records[0].Meta)
	}
	if records[1].Meta.Page != "7" {
		t.Errorf("numeric page should coerce to string, got %q", records[1].Meta.Page)
	}
	if records[2].Meta != (commonModels.ChunkMetadata{Source: "Unknown", Page: "Unknown", Type: "text"}) {
		t.Errorf("missing metadata should take defaults, got %+v", records[2].Meta)
	}
}

func TestStreamRecords_MalformedLineIsSkippedNotFatal(t *testing.T) {
	input := `{"content": "good one", "metadata": {"source": "A.pdf"}}
{not json at all
{"content": "good two", "metadata": {"source": "A.pdf"}}
`
	records, parsed, skipped := collect(t, input)

	if parsed != 2 || skipped != 1 {
		t.Fatalf("parsed=%d skipped=%d, want 2/1", parsed, skipped)
	}
	if len(records) != 2 {
		t.Fatalf("records got %d, want 2", len(records))
	}
}

func TestStreamRecords_EmptyStream(t *testing.T) {
	records, parsed, skipped := collect(t, "")
	if len(records) != 0 || parsed != 0 || skipped != 0 {
		t.Errorf("empty stream should yield nothing, got %d/%d/%d", len(records), parsed, skipped)
	}
}

func TestChunkKey_DeterministicAndKeyed(t *testing.T) {
	meta := commonModels.ChunkMetadata{Source: "A.pdf", Page: "1", Type: "text"}

	k1 := ChunkKey("some content", meta)
	k2 := ChunkKey("some content", meta)
	if k1 != k2 {
		t.Errorf("same input must give same key: %q vs %q", k1, k2)
	}
	if !strings.HasPrefix(k1, "A.pdf|p1|text|") {
		t.Errorf("key format wrong: %q", k1)
	}
	if ChunkKey("other content", meta) == k1 {
		t.Error("different content must give different key")
	}
	otherMeta := commonModels.ChunkMetadata{Source: "B.pdf", Page: "1", Type: "text"}
	if ChunkKey("some content", otherMeta) == k1 {
		t.Error("different source must give different key")
	}
}

func TestChunkKey_HashesOnlyThePrefix(t *testing.T) {
	meta := commonModels.ChunkMetadata{Source: "A.pdf", Page: "1", Type: "text"}
	shared := strings.Repeat("x", hashPrefixRunes)

	// Beyond the hashed prefix the tail no longer matters. Accepted tradeoff.
	k1 := ChunkKey(shared+"tail one", meta)
	k2 := ChunkKey(shared+"a completely different tail", meta)
	if k1 != k2 {
		t.Errorf("keys should collide past the prefix: %q vs %q", k1, k2)
	}
}

func TestPointID_StableUUID(t *testing.T) {
	key := "A.pdf|p1|text|abc123"
	id1 := PointID(key)
	id2 := PointID(key)
	if id1 != id2 {
		t.Errorf("point id must be deterministic: %q vs %q", id1, id2)
	}
	if id1 == PointID("A.pdf|p2|text|abc123") {
		t.Error("distinct keys must map to distinct point ids")
	}
	if len(id1) != 36 {
		t.Errorf("expected canonical uuid, got %q", id1)
	}
}

func TestCollectSources_DistinctSorted(t *testing.T) {
	input := `{"content": "a", "metadata": {"source": "Zeta.pdf"}}
{"content": "b", "metadata": {"source": "Alpha.pdf"}}
{"content": "c", "metadata": {"source": "Zeta.pdf"}}
{"content": "d"}
`
	sources, err := CollectSources(strings.NewReader(input), testLog)
	if err != nil {
		t.Fatalf("CollectSources failed: %v", err)
	}
	want := []string{"Alpha.pdf", "Unknown", "Zeta.pdf"}
	if len(sources) != len(want) {
		t.Fatalf("sources got %v, want %v", sources, want)
	}
	for i := range want {
		if sources[i] != want[i] {
			t.Errorf("sources got %v, want %v", sources, want)
			break
		}
	}
}
