package server

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/nvarma/ers-rag/internal/adapter/utils"
	"github.com/nvarma/ers-rag/internal/config"
	"github.com/nvarma/ers-rag/internal/middleware"
	"github.com/nvarma/ers-rag/pkg/logx"
)

var (
	server  *http.Server
	_logger *logx.Logger
)

type ShutdownParams struct {
	GracefulShutdown chan os.Signal
	StopExecution    chan bool
	CloseServices    context.CancelFunc
}

func CreateServer(listenAddr string) {
	_logger = logx.NewLogger("Server")

	r := utils.GetRouter()
	r.Router.Post("/ask", middleware.AskHandler)
	r.Router.Get("/documents", middleware.DocumentsHandler)
	r.Router.Get("/stats", middleware.StatsHandler)
	r.Router.Get("/history", middleware.HistoryHandler)
	r.Router.Get("/healthz", middleware.HealthHandler)

	server = &http.Server{
		Addr:         listenAddr,
		Handler:      r.Router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	_logger.Info("Server is listening", "address", listenAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		_logger.Error("Server crashed", "error", err, "addr", listenAddr)
	}
}

func ShutDownHandler(params ShutdownParams) {
	sig := <-params.GracefulShutdown
	_logger.Info("Server is shutting down", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownContextTimeout)
	defer cancel()

	done := make(chan struct{})
	go func() {
		server.SetKeepAlivesEnabled(false)
		if err := server.Shutdown(ctx); err != nil {
			_logger.Error("Could not shutdown gracefully", "error", err)
		}
		params.CloseServices()
		close(params.StopExecution)
		close(done)
	}()

	select {
	case <-done:
		_logger.Info("Graceful shutdown complete")
	case <-ctx.Done():
		_logger.Info("Force shutdown")
		os.Exit(1)
	}
}
