package utils

import (
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var once sync.Once
var router *chi.Mux

func GetNewUUID() string {
	return uuid.New().String()
}

type RouterClient struct {
	Router *chi.Mux
}

// GetRouter returns the process-wide chi router with the metrics endpoint
// registered.
func GetRouter() RouterClient {
	once.Do(func() {
		router = chi.NewRouter()
		router.Handle("/metrics", promhttp.Handler())
	})
	return RouterClient{Router: router}
}
