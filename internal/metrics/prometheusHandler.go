package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by path and status",
}, []string{"path", "status"})

var questionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "questions_total",
	Help: "Questions processed, labelled by outcome",
}, []string{"outcome"})

var chunksIndexed = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "chunks_indexed",
	Help: "Number of chunks written to the vector index at bootstrap",
})

var dependencyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "dependency_latency_seconds",
	Help:    "Latency of external service calls.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10},
}, []string{"service"})

var questionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "question_duration_seconds",
	Help:    "Total time spent answering one question.",
	Buckets: []float64{.1, .5, 1, 2, 5, 10, 30},
}, []string{"outcome"})

type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

// CaptureExecutionMetrics records one external dependency call
// (embedding, vector_search, llm_generation).
func CaptureExecutionMetrics(label string, timeElapsed time.Duration) {
	dependencyLatency.WithLabelValues(label).Observe(timeElapsed.Seconds())
}

func CaptureQuestionMetrics(outcome string, timeElapsed time.Duration) {
	questionsTotal.WithLabelValues(outcome).Inc()
	questionDuration.WithLabelValues(outcome).Observe(timeElapsed.Seconds())
}

func SetChunksIndexed(count int) {
	chunksIndexed.Set(float64(count))
}
