package session

import (
	"sort"
	"sync"
	"time"

	"github.com/nvarma/ers-rag/internal/config"
	"github.com/nvarma/ers-rag/internal/domain/commonModels"
)

// Stats are the derived per-session metrics. EstimatedCost is a flat
// per-question constant, not measured from token usage — an approximation,
// never a billing figure.
type Stats struct {
	QuestionCount int     `json:"question_count"`
	EstimatedCost float64 `json:"estimated_cost"`
}

// Store holds the append-only message history for one session. Messages are
// never edited or removed, and nothing survives a process restart.
type Store struct {
	mu       sync.RWMutex
	messages []commonModels.ChatMessage
}

func NewStore() *Store {
	return &Store{}
}

// AppendTurn records one completed question/answer exchange. It is called
// only after the whole turn succeeded, so a failed generation never leaves a
// dangling user message or a synthetic assistant entry behind.
func (s *Store) AppendTurn(question string, answer string, sources []commonModels.Citation) {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages,
		commonModels.ChatMessage{Role: commonModels.RoleUser, Content: question, At: now},
		commonModels.ChatMessage{Role: commonModels.RoleAssistant, Content: answer, Sources: sources, At: now},
	)
}

// History returns a copy of the message list in append order.
func (s *Store) History() []commonModels.ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]commonModels.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, m := range s.messages {
		if m.Role == commonModels.RoleUser {
			count++
		}
	}
	return Stats{
		QuestionCount: count,
		EstimatedCost: float64(count) * config.CostPerQuestionUSD,
	}
}

// RecentSources lists the distinct documents cited across the last n
// messages, sorted by name.
func (s *Store) RecentSources(n int) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := len(s.messages) - n
	if start < 0 {
		start = 0
	}
	seen := make(map[string]struct{})
	for _, m := range s.messages[start:] {
		for _, src := range m.Sources {
			seen[src.Source] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for src := range seen {
		out = append(out, src)
	}
	sort.Strings(out)
	return out
}
