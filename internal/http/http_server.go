package http

// this is entry point of the http request handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gitlab.com/gav-2025.net/internal/core/ports/primary"
	"gitlab.com/gav-2025.net/internal/core/ports/secondary"
	"gitlab.com/gav-2025.net/internal/core/services/submission"
	"gitlab.com/gav-2025.net/internal/core/services/testcase"
	"gitlab.com/gav-2025.net/internal/handlers/response"
	"gitlab.com/gav-2025.net/internal/handlers/submissions"
	"gitlab.com/gav-2025.net/internal/handlers/testcases"
)

type ServiceProvider struct {
	submissionService submission.ISubmissionService
	testCaseService   testcase.ITestCaseService
	engine            secondary.SandboxEngine
}

func NewServiceProvider(
	submissionService submission.ISubmissionService,
	testCaseService testcase.ITestCaseService,
	engine secondary.SandboxEngine,
) *ServiceProvider {
	return &ServiceProvider{
		submissionService: submissionService,
		testCaseService:   testCaseService,
		engine:            engine,
	}
}

type Server struct {
	router          *mux.Router
	srv             *http.Server
	Port            int
	ServiceName     string
	ServiceProvider ServiceProvider
	logger          primary.Logger
}

func NewServer(port int, serviceName string, serviceProvider ServiceProvider, logger primary.Logger) *Server {
	return &Server{
		Port:            port,
		ServiceName:     serviceName,
		ServiceProvider: serviceProvider,
		logger:          logger,
	}
}

func (s *Server) Init() error {
	r := mux.NewRouter()
	submissions.NewSubmissionHandler(s.ServiceProvider.submissionService, s.logger).RegisterRoutes(r)
	testcases.NewTestCaseHandler(s.ServiceProvider.testCaseService, s.logger).RegisterRoutes(r)
	r.HandleFunc("/healthz", s.Healthz).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	s.router = r
	return nil
}

// Healthz reports whether the sandbox engine is reachable.
func (s *Server) Healthz(w http.ResponseWriter, r *http.Request) {
	if err := s.ServiceProvider.engine.Ping(r.Context()); err != nil {
		response.FromError(w, err)
		return
	}
	response.WriteSuccess(w, map[string]string{"status": "ok", "service": s.ServiceName})
}

func (s *Server) Start(ctx context.Context) {
	// Evaluation runs inside the request, so the write timeout has to
	// cover a full compile+build+execute pass.
	s.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		s.logger.Info("Server listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Server error", "error", err)
		}
	}()
}

func (s *Server) Stop(ctx context.Context) {
	s.logger.Info("Shutting down http server...")
	if s.srv != nil {
		if err := s.srv.Shutdown(ctx); err != nil {
			s.logger.Error("Failed to shut down http server", "error", err)
		}
	}
}
