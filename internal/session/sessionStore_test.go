package session

import (
	"testing"

	"github.com/nvarma/ers-rag/internal/config"
	"github.com/nvarma/ers-rag/internal/domain/commonModels"
)

func cite(source string) commonModels.Citation {
	return commonModels.Citation{Source: source, Page: "1", Type: "text"}
}

func TestAppendTurn_RecordsUserAndAssistantPair(t *testing.T) {
	s := NewStore()
	s.AppendTurn("what is the rating?", "moderate", []commonModels.Citation{cite("A.pdf")})

	history := s.History()
	if len(history) != 2 {
		t.Fatalf("history length got %d, want 2", len(history))
	}
	if history[0].Role != commonModels.RoleUser || history[0].Content != "what is the rating?" {
		t.Errorf("user message wrong: %+v", history[0])
	}
	if history[1].Role != commonModels.RoleAssistant || history[1].Content != "moderate" {
		t.Errorf("assistant message wrong: %+v", history[1])
	}
	if len(history[0].Sources) != 0 {
		t.Error("sources belong on the assistant message only")
	}
	if len(history[1].Sources) != 1 || history[1].Sources[0].Source != "A.pdf" {
		t.Errorf("assistant sources wrong: %+v", history[1].Sources)
	}
}

func TestHistory_ReturnsCopy(t *testing.T) {
	s := NewStore()
	s.AppendTurn("q", "a", nil)

	history := s.History()
	history[0].Content = "mutated"
	if s.History()[0].Content != "q" {
		t.Error("History must return a copy")
	}
}

func TestStats_CountsQuestionsNotMessages(t *testing.T) {
	s := NewStore()

	if got := s.Stats(); got.QuestionCount != 0 || got.EstimatedCost != 0 {
		t.Errorf("fresh store stats got %+v", got)
	}

	for i := 0; i < 3; i++ {
		s.AppendTurn("q", "a", nil)
	}

	stats := s.Stats()
	if stats.QuestionCount != 3 {
		t.Errorf("question count got %d, want 3", stats.QuestionCount)
	}
	if want := 3 * config.CostPerQuestionUSD; stats.EstimatedCost != want {
		t.Errorf("estimated cost got %f, want %f", stats.EstimatedCost, want)
	}
}

func TestRecentSources_DistinctSortedWindow(t *testing.T) {
	s := NewStore()
	s.AppendTurn("q1", "a1", []commonModels.Citation{cite("Old.pdf")})
	s.AppendTurn("q2", "a2", []commonModels.Citation{cite("Zeta.pdf"), cite("Alpha.pdf")})
	s.AppendTurn("q3", "a3", []commonModels.Citation{cite("Alpha.pdf")})

	// Window of 4 messages covers the last two turns only.
	sources := s.RecentSources(4)
	want := []string{"Alpha.pdf", "Zeta.pdf"}
	if len(sources) != len(want) {
		t.Fatalf("sources got %v, want %v", sources, want)
	}
	for i := range want {
		if sources[i] != want[i] {
			t.Fatalf("sources got %v, want %v", sources, want)
		}
	}
}

func TestRecentSources_WindowLargerThanHistory(t *testing.T) {
	s := NewStore()
	s.AppendTurn("q", "a", []commonModels.Citation{cite("A.pdf")})

	sources := s.RecentSources(100)
	if len(sources) != 1 || sources[0] != "A.pdf" {
		t.Errorf("sources got %v, want [A.pdf]", sources)
	}
}
