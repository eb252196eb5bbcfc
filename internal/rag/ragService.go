package rag

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/nvarma/ers-rag/internal/config"
	"github.com/nvarma/ers-rag/internal/domain/commonModels"
	"github.com/nvarma/ers-rag/internal/metrics"
	"github.com/nvarma/ers-rag/internal/rag/embedding"
	"github.com/nvarma/ers-rag/internal/rag/llm"
	"github.com/nvarma/ers-rag/internal/rag/prompt"
	"github.com/nvarma/ers-rag/internal/rag/vectorDB"
	"github.com/nvarma/ers-rag/internal/session"
	"github.com/nvarma/ers-rag/pkg/logx"
)

// Answer is the result of one successful question turn. NoResults marks the
// valid empty-retrieval state: Text then carries the explicit nothing-found
// message and Citations is empty.
type Answer struct {
	Text      string
	Citations []commonModels.Citation
	NoResults bool
}

// Service is the contract the transport layer consumes. The handlers never
// see the vector index, the embedder or the model client directly.
type Service interface {
	SubmitQuestion(ctx context.Context, question string, filterSource string) (Answer, error)
	ListDocuments() []string
	Stats() session.Stats
	History() []commonModels.ChatMessage
	RecentSources() []string
}

type service struct {
	store       vectorDB.DataStore
	embedder    embedding.Embedder
	llmProvider llm.Provider
	sessions    *session.Store
	documents   []string
	logger      *logx.Logger

	// turnLock serializes questions: a new one is only accepted after the
	// prior one resolves, success or error.
	turnLock sync.Mutex
}

// NewService wires the pipeline together. documents is the memoized distinct
// source list derived from the chunk stream at bootstrap.
func NewService(store vectorDB.DataStore, provider llm.Provider, embedder embedding.Embedder, sessions *session.Store, documents []string) Service {
	return &service{
		store:       store,
		embedder:    embedder,
		llmProvider: provider,
		sessions:    sessions,
		documents:   documents,
		logger:      logx.NewLogger("RAG Service"),
	}
}

// SubmitQuestion runs one full turn: retrieve, assemble, generate, record.
// Retrieval always completes and the context is fully assembled before the
// generation call is issued. On any failure nothing is appended to history.
func (s *service) SubmitQuestion(ctx context.Context, question string, filterSource string) (Answer, error) {
	s.turnLock.Lock()
	defer s.turnLock.Unlock()

	start := time.Now()
	outcome := "error"
	defer func() { metrics.CaptureQuestionMetrics(outcome, time.Since(start)) }()

	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	if strings.TrimSpace(question) == "" {
		return Answer{}, ErrEmptyQuestion
	}

	results, err := s.retrieve(ctx, log, question, filterSource, config.DefaultTopK)
	if err != nil {
		return Answer{}, err
	}

	if len(results) == 0 {
		answer := Answer{Text: noResultsMessage(filterSource), NoResults: true}
		s.sessions.AppendTurn(question, answer.Text, nil)
		outcome = "no_results"
		return answer, nil
	}

	contextText, citations := prompt.BuildContext(results)

	answerText, err := s.generate(ctx, log, question, contextText)
	if err != nil {
		return Answer{}, err
	}

	s.sessions.AppendTurn(question, answerText, citations)
	outcome = "answered"
	return Answer{Text: answerText, Citations: citations}, nil
}

// retrieve issues the similarity query and applies the optional source
// filter. The index has no native per-field filter in this design, so the
// filtered path over-fetches a ranked candidate set and scans it in rank
// order, which preserves similarity ordering without a second query.
func (s *service) retrieve(ctx context.Context, log *logx.Logger, question string, filterSource string, k int) ([]commonModels.RetrievedChunk, error) {
	queryCtx, cancel := context.WithTimeout(ctx, config.RetrievalTimeout)
	defer cancel()

	embedStart := time.Now()
	vector, err := s.embedder.Embed(queryCtx, question)
	metrics.CaptureExecutionMetrics("embedding", time.Since(embedStart))
	if err != nil {
		log.Error("query embedding failed", "error", err)
		return nil, fmt.Errorf("%w: embedding query: %v", ErrRetrievalFailed, err)
	}

	limit := uint64(k)
	if filterSource != "" {
		limit = config.FilterOverfetchLimit
	}

	searchStart := time.Now()
	candidates, err := s.store.Query(queryCtx, vector, limit)
	metrics.CaptureExecutionMetrics("vector_search", time.Since(searchStart))
	if err != nil {
		log.Error("vector query failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrRetrievalFailed, err)
	}

	if filterSource == "" {
		return candidates, nil
	}
	return filterBySource(candidates, filterSource, k), nil
}

func (s *service) generate(ctx context.Context, log *logx.Logger, question string, contextText string) (string, error) {
	genCtx, cancel := context.WithTimeout(ctx, config.GenerationTimeout)
	defer cancel()

	genStart := time.Now()
	answer, err := s.llmProvider.Generate(genCtx, question, contextText)
	metrics.CaptureExecutionMetrics("llm_generation", time.Since(genStart))
	if err != nil {
		log.Error("generation failed", "error", err)
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	return answer, nil
}

func (s *service) ListDocuments() []string {
	out := make([]string, len(s.documents))
	copy(out, s.documents)
	return out
}

func (s *service) Stats() session.Stats {
	return s.sessions.Stats()
}

func (s *service) History() []commonModels.ChatMessage {
	return s.sessions.History()
}

func (s *service) RecentSources() []string {
	return s.sessions.RecentSources(10)
}
