package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"sync"

	"github.com/nvarma/ers-rag/internal/adapter"
	"github.com/nvarma/ers-rag/internal/api"
	"github.com/nvarma/ers-rag/internal/rag"
	"github.com/nvarma/ers-rag/pkg/logx"
)

var (
	handlerInstance *questionHandler
	once            sync.Once
	logRH           *logx.Logger
)

type questionHandler struct {
	service rag.Service
}

func InitHandlers(service rag.Service) {
	once.Do(func() {
		handlerInstance = &questionHandler{service: service}
		logRH = logx.NewLogger("RequestHandler")
		logRH.Info("Handlers ready")
	})
}

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// AskHandler answers one question synchronously: the request blocks through
// retrieve, assemble and generate. Questions are serialized by the service,
// a new one is only processed after the prior one resolves.
func AskHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid context by request", "remote", r.RemoteAddr)
		return
	}

	var req api.AskRequest
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			logRH.Error("Couldn't close the ask request reader", "error", err)
		}
	}(r.Body)

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logRH.Warn("Bad ask request", "error", err)
		WriteErrorResponse(w, api.ErrorResponse{Stage: "validation", Message: "malformed request body", Code: http.StatusBadRequest})
		return
	}

	answer, err := handlerInstance.service.SubmitQuestion(r.Context(), req.Question, req.FilterSource)
	if err != nil {
		WriteErrorResponse(w, adapter.ToErrorResponse(err))
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToAskResponse(answer))
}

func DocumentsHandler(w http.ResponseWriter, r *http.Request) {
	docs := handlerInstance.service.ListDocuments()
	writeJsonResponse(w, http.StatusOK, api.DocumentsResponse{Documents: docs, Total: len(docs)})
}

func StatsHandler(w http.ResponseWriter, r *http.Request) {
	stats := handlerInstance.service.Stats()
	writeJsonResponse(w, http.StatusOK, adapter.ToStatsResponse(stats, handlerInstance.service.RecentSources()))
}

func HistoryHandler(w http.ResponseWriter, r *http.Request) {
	writeJsonResponse(w, http.StatusOK, api.HistoryResponse{Messages: handlerInstance.service.History()})
}
