package rag_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nvarma/ers-rag/internal/config"
	"github.com/nvarma/ers-rag/internal/domain/commonModels"
	"github.com/nvarma/ers-rag/internal/rag"
	"github.com/nvarma/ers-rag/internal/session"
)

func newService(store *MockDataStore, llm *MockLLM, embedder *MockEmbedder, docs []string) (rag.Service, *session.Store) {
	sessions := session.NewStore()
	return rag.NewService(store, llm, embedder, sessions, docs), sessions
}

func TestSubmitQuestion_Scenarios(t *testing.T) {
	tests := []struct {
		name            string
		question        string
		filterSource    string
		setupMocks      func(s *MockDataStore, e *MockEmbedder, l *MockLLM)
		expectedErr     error
		expectedAnswer  string
		expectNoResults bool
		expectedSources []string
		expectedHistory int
	}{
		{
			name:     "Success_Full_Flow",
			question: "what is the risk rating?",
			setupMocks: func(s *MockDataStore, e *MockEmbedder, l *MockLLM) {
				s.OnQuery = func(ctx context.Context, v []float32, limit uint64) ([]commonModels.RetrievedChunk, error) {
					if limit != config.DefaultTopK {
						t.Errorf("unfiltered query limit got %d, want %d", limit, config.DefaultTopK)
					}
					return []commonModels.RetrievedChunk{
						chunk("A.pdf", "1", "text", "rating is moderate"),
						chunk("B.pdf", "4", "table", "rating table"),
					}, nil
				}
				l.OnGenerate = func(ctx context.Context, q string, c string) (string, error) {
					return "final answer", nil
				}
			},
			expectedAnswer:  "final answer",
			expectedSources: []string{"A.pdf", "B.pdf"},
			expectedHistory: 2,
		},
		{
			name:         "Filter_Keeps_Only_Requested_Source",
			question:     "question",
			filterSource: "B.pdf",
			setupMocks: func(s *MockDataStore, e *MockEmbedder, l *MockLLM) {
				s.OnQuery = func(ctx context.Context, v []float32, limit uint64) ([]commonModels.RetrievedChunk, error) {
					if limit != config.FilterOverfetchLimit {
						t.Errorf("filtered query limit got %d, want %d", limit, config.FilterOverfetchLimit)
					}
					// A ranks higher but must be filtered out.
					return []commonModels.RetrievedChunk{
						chunk("A.pdf", "1", "text", "closest match"),
						chunk("B.pdf", "2", "text", "second"),
						chunk("A.pdf", "3", "text", "third"),
						chunk("B.pdf", "7", "table", "fourth"),
					}, nil
				}
			},
			expectedAnswer:  "mocked llm response",
			expectedSources: []string{"B.pdf", "B.pdf"},
			expectedHistory: 2,
		},
		{
			name:         "Filter_With_No_Survivors_Is_Not_An_Error",
			question:     "question",
			filterSource: "C.pdf",
			setupMocks: func(s *MockDataStore, e *MockEmbedder, l *MockLLM) {
				s.OnQuery = func(ctx context.Context, v []float32, limit uint64) ([]commonModels.RetrievedChunk, error) {
					return []commonModels.RetrievedChunk{chunk("A.pdf", "1", "text", "irrelevant")}, nil
				}
				l.OnGenerate = func(ctx context.Context, q string, c string) (string, error) {
					t.Error("generation must not be called when retrieval is empty")
					return "", nil
				}
			},
			expectNoResults: true,
			expectedAnswer:  "No relevant information found in 'C.pdf' about your question.",
			expectedHistory: 2,
		},
		{
			name:     "Failure_Retrieval",
			question: "question",
			setupMocks: func(s *MockDataStore, e *MockEmbedder, l *MockLLM) {
				s.OnQuery = func(ctx context.Context, v []float32, limit uint64) ([]commonModels.RetrievedChunk, error) {
					return nil, errors.New("db timeout")
				}
			},
			expectedErr:     rag.ErrRetrievalFailed,
			expectedHistory: 0,
		},
		{
			name:     "Failure_Query_Embedding_Is_A_Retrieval_Failure",
			question: "question",
			setupMocks: func(s *MockDataStore, e *MockEmbedder, l *MockLLM) {
				e.OnEmbed = func(ctx context.Context, text string) ([]float32, error) {
					return nil, errors.New("api limit")
				}
			},
			expectedErr:     rag.ErrRetrievalFailed,
			expectedHistory: 0,
		},
		{
			name:     "Failure_Generation_Leaves_History_Unchanged",
			question: "question",
			setupMocks: func(s *MockDataStore, e *MockEmbedder, l *MockLLM) {
				s.OnQuery = func(ctx context.Context, v []float32, limit uint64) ([]commonModels.RetrievedChunk, error) {
					return []commonModels.RetrievedChunk{chunk("A.pdf", "1", "text", "content")}, nil
				}
				l.OnGenerate = func(ctx context.Context, q string, c string) (string, error) {
					return "", errors.New("provider down")
				}
			},
			expectedErr:     rag.ErrGenerationFailed,
			expectedHistory: 0,
		},
		{
			name:            "Empty_Question_Rejected",
			question:        "   ",
			setupMocks:      func(s *MockDataStore, e *MockEmbedder, l *MockLLM) {},
			expectedErr:     rag.ErrEmptyQuestion,
			expectedHistory: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &MockDataStore{}
			embedder := &MockEmbedder{}
			llmMock := &MockLLM{}
			tt.setupMocks(store, embedder, llmMock)

			svc, sessions := newService(store, llmMock, embedder, nil)

			answer, err := svc.SubmitQuestion(context.Background(), tt.question, tt.filterSource)

			if tt.expectedErr != nil {
				if !errors.Is(err, tt.expectedErr) {
					t.Fatalf("error got %v, want %v", err, tt.expectedErr)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if tt.expectedAnswer != "" && answer.Text != tt.expectedAnswer {
				t.Errorf("answer got %q, want %q", answer.Text, tt.expectedAnswer)
			}
			if answer.NoResults != tt.expectNoResults {
				t.Errorf("NoResults got %v, want %v", answer.NoResults, tt.expectNoResults)
			}

			if tt.expectedSources != nil {
				if len(answer.Citations) != len(tt.expectedSources) {
					t.Fatalf("citations got %d, want %d", len(answer.Citations), len(tt.expectedSources))
				}
				for i, want := range tt.expectedSources {
					if answer.Citations[i].Source != want {
						t.Errorf("citation %d source got %q, want %q", i, answer.Citations[i].Source, want)
					}
				}
			}

			if got := len(sessions.History()); got != tt.expectedHistory {
				t.Errorf("history length got %d, want %d", got, tt.expectedHistory)
			}
		})
	}
}

func TestSubmitQuestion_CitationsMatchPromptOrder(t *testing.T) {
	store := &MockDataStore{
		OnQuery: func(ctx context.Context, v []float32, limit uint64) ([]commonModels.RetrievedChunk, error) {
			return []commonModels.RetrievedChunk{
				chunk("Q3_Report.pdf", "12", "table", "fund returned 4.1%"),
				chunk("Annual.pdf", "3", "text", "risk rating moderate"),
			}, nil
		},
	}
	var promptContext string
	llmMock := &MockLLM{
		OnGenerate: func(ctx context.Context, q string, c string) (string, error) {
			promptContext = c
			return "answer", nil
		},
	}

	svc, _ := newService(store, llmMock, &MockEmbedder{}, nil)
	answer, err := svc.SubmitQuestion(context.Background(), "how did the fund do?", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(answer.Citations) != 2 {
		t.Fatalf("citations got %d, want 2", len(answer.Citations))
	}
	first := strings.Index(promptContext, "[Source 1: Q3_Report.pdf - Page 12 - table]")
	second := strings.Index(promptContext, "[Source 2: Annual.pdf - Page 3 - text]")
	if first == -1 || second == -1 || second < first {
		t.Errorf("context labels missing or out of order:\n%s", promptContext)
	}
	if answer.Citations[0].Source != "Q3_Report.pdf" || answer.Citations[1].Source != "Annual.pdf" {
		t.Errorf("citations out of order: %+v", answer.Citations)
	}
}

func TestStats_After_Three_Questions(t *testing.T) {
	store := &MockDataStore{
		OnQuery: func(ctx context.Context, v []float32, limit uint64) ([]commonModels.RetrievedChunk, error) {
			return []commonModels.RetrievedChunk{chunk("A.pdf", "1", "text", "content")}, nil
		},
	}

	svc, _ := newService(store, &MockLLM{}, &MockEmbedder{}, nil)
	for i := 0; i < 3; i++ {
		if _, err := svc.SubmitQuestion(context.Background(), "question", ""); err != nil {
			t.Fatalf("question %d failed: %v", i, err)
		}
	}

	stats := svc.Stats()
	if stats.QuestionCount != 3 {
		t.Errorf("question count got %d, want 3", stats.QuestionCount)
	}
	want := 3 * config.CostPerQuestionUSD
	if stats.EstimatedCost != want {
		t.Errorf("estimated cost got %f, want %f", stats.EstimatedCost, want)
	}
}

func TestListDocuments_ReturnsMemoizedCopy(t *testing.T) {
	svc, _ := newService(&MockDataStore{}, &MockLLM{}, &MockEmbedder{}, []string{"A.pdf", "B.pdf"})

	docs := svc.ListDocuments()
	if len(docs) != 2 {
		t.Fatalf("documents got %d, want 2", len(docs))
	}
	docs[0] = "mutated"
	if svc.ListDocuments()[0] != "A.pdf" {
		t.Error("ListDocuments must return a copy")
	}
}

func TestListDocuments_EmptyCorpus(t *testing.T) {
	svc, _ := newService(&MockDataStore{}, &MockLLM{}, &MockEmbedder{}, nil)
	if got := len(svc.ListDocuments()); got != 0 {
		t.Errorf("documents got %d, want 0", got)
	}
}
