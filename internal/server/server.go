package server

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/akolanti/JobMatch/internal/adapter/utils"
	"github.com/akolanti/JobMatch/internal/config"
	"github.com/akolanti/JobMatch/internal/handlers"
	"github.com/akolanti/JobMatch/internal/middleware"
	"github.com/akolanti/JobMatch/pkg/logger_i"
	"github.com/go-chi/chi/v5"
)

type ShutdownParams struct {
	GracefulShutdown chan os.Signal
	StopExecution    chan bool
	// StopWorkers drains the trigger sources and the worker pool.
	StopWorkers   func()
	CloseServices context.CancelFunc
}

type Server struct {
	httpServer *http.Server
	logger     *logger_i.Logger
}

// NewRouter registers every route on a fresh router.
func NewRouter(h *handlers.Handler, mw *middleware.Middleware) *chi.Mux {
	r := utils.NewRouter()
	r.Get("/healthz", mw.Wrap(handlers.GetHandler))
	r.Post("/events", mw.Wrap(h.EventsHandler))
	r.Get("/results/{filename}", mw.Wrap(h.GetResultHandler))
	return r
}

func CreateServer(listenAddr string, handler http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         listenAddr,
			Handler:      handler,
			ReadTimeout:  config.ReadTimeout,
			WriteTimeout: config.WriteTimeout,
			IdleTimeout:  config.IdleTimeout,
		},
		logger: logger_i.NewLogger("Server"),
	}
}

// Start blocks until the server is shut down.
func (s *Server) Start() {
	s.logger.Info("Server is listening at", "address", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error("Server crashed", "error", err.Error(), "addr", s.httpServer.Addr)
	}
}

func (s *Server) ShutDownHandler(shutdownParams ShutdownParams) {
	state := <-shutdownParams.GracefulShutdown
	s.logger.Info("Server is shutting down", "signal", state.String())

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownContextTimeout)
	defer cancel()

	done := make(chan struct{})

	go func() {
		s.httpServer.SetKeepAlivesEnabled(false)

		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("Could not shutdown gracefully", "error", err)
		}

		shutdownParams.CloseServices()
		if shutdownParams.StopWorkers != nil {
			shutdownParams.StopWorkers()
		}
		close(shutdownParams.StopExecution)
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Gracefully shut down")
	case <-ctx.Done():
		s.logger.Info("Force Shut down")
		os.Exit(1)
	}
}
