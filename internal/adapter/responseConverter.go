package adapter

import (
	"errors"
	"net/http"

	"github.com/nvarma/ers-rag/internal/api"
	"github.com/nvarma/ers-rag/internal/domain/commonModels"
	"github.com/nvarma/ers-rag/internal/rag"
	"github.com/nvarma/ers-rag/internal/session"
)

func ToAskResponse(answer rag.Answer) api.AskResponse {
	citations := answer.Citations
	if citations == nil {
		citations = []commonModels.Citation{}
	}
	return api.AskResponse{
		Answer:    answer.Text,
		Citations: citations,
		NoResults: answer.NoResults,
	}
}

func ToStatsResponse(stats session.Stats, recent []string) api.StatsResponse {
	if recent == nil {
		recent = []string{}
	}
	return api.StatsResponse{
		QuestionCount: stats.QuestionCount,
		EstimatedCost: stats.EstimatedCost,
		RecentSources: recent,
	}
}

// ToErrorResponse maps a pipeline failure onto the stage name and HTTP status
// the caller sees. Unknown errors stay a generic 500 without leaking internals.
func ToErrorResponse(err error) api.ErrorResponse {
	switch {
	case errors.Is(err, rag.ErrEmptyQuestion):
		return api.ErrorResponse{Stage: "validation", Message: "question must not be empty", Code: http.StatusBadRequest}
	case errors.Is(err, rag.ErrRetrievalFailed):
		return api.ErrorResponse{Stage: "retrieval", Message: "document retrieval failed, no answer was generated", Code: http.StatusBadGateway}
	case errors.Is(err, rag.ErrGenerationFailed):
		return api.ErrorResponse{Stage: "generation", Message: "answer generation failed, this turn was not recorded", Code: http.StatusBadGateway}
	case errors.Is(err, rag.ErrConfigurationMissing):
		return api.ErrorResponse{Stage: "configuration", Message: "service is missing required configuration", Code: http.StatusServiceUnavailable}
	default:
		return api.ErrorResponse{Stage: "internal", Message: "internal error", Code: http.StatusInternalServerError}
	}
}
