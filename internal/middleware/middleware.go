package middleware

import (
	"net/http"
	"strconv"

	"github.com/nvarma/ers-rag/internal/handlers"
	"github.com/nvarma/ers-rag/internal/metrics"
	"github.com/nvarma/ers-rag/pkg/logx"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logx.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
}

var AskHandler = Wrap(handlers.AskHandler)
var DocumentsHandler = Wrap(handlers.DocumentsHandler)
var StatsHandler = Wrap(handlers.StatsHandler)
var HistoryHandler = Wrap(handlers.HistoryHandler)
var HealthHandler = Wrap(handlers.HealthHandler)

// Wrap runs the shared pre-handler chain (trace injection, rate limiting)
// and records request metrics for every route.
func Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: 200}
		re := processRequest(requestResponseStruct{req: r, writer: rec})

		if re.badRequest.isBadRequest {
			handleBadRequest(re)
			return
		}
		next(rec, re.req)

		metrics.HttpRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.Status)).Inc()
	}
}

func processRequest(re requestResponseStruct) requestResponseStruct {
	re.logger = logx.NewLogger("middleware")

	re = injectTrace(re)
	re = rateLimit(re)
	return re
}
