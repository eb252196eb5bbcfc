package api

import "github.com/nvarma/ers-rag/internal/domain/commonModels"

// AskRequest is one question. FilterSource restricts retrieval to a single
// named document; empty means search everything.
type AskRequest struct {
	Question     string `json:"question" example:"What is the Fiduciary Risk Rating?"`
	FilterSource string `json:"filter_source,omitempty" example:"ERS_Annual_Report.pdf"`
}

// AskResponse carries the answer with its citations in prompt order.
// NoResults is set when retrieval found nothing and Answer holds the explicit
// nothing-found message instead of generated text.
type AskResponse struct {
	Answer    string                  `json:"answer"`
	Citations []commonModels.Citation `json:"citations"`
	NoResults bool                    `json:"no_results,omitempty"`
}

type DocumentsResponse struct {
	Documents []string `json:"documents"`
	Total     int      `json:"total"`
}

type StatsResponse struct {
	QuestionCount int      `json:"question_count"`
	EstimatedCost float64  `json:"estimated_cost"`
	RecentSources []string `json:"recent_sources"`
}

type HistoryResponse struct {
	Messages []commonModels.ChatMessage `json:"messages"`
}

// ErrorResponse names the stage that failed. The message is always
// human-readable; a raw cause is never the only signal.
type ErrorResponse struct {
	Stage   string `json:"stage" example:"generation"`
	Message string `json:"message" example:"generation failed"`
	Code    int    `json:"code" example:"502"`
}
