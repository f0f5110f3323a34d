package api

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dhirendraxd/CyberSentry-sub000/internal/analysis"
	"github.com/dhirendraxd/CyberSentry-sub000/internal/integrations"
	"github.com/dhirendraxd/CyberSentry-sub000/internal/utils/logger"
)

// Server exposes the analysis pipeline and integration registry over HTTP.
// Server 通过 HTTP 暴露分析流水线和集成注册表。
type Server struct {
	sessions  *analysis.SessionManager
	registry  *integrations.Registry
	listen    string
	maxUpload int64

	httpServer *http.Server
}

// NewServer wires the handlers. maxUpload caps request bodies before any
// parser invocation.
func NewServer(sessions *analysis.SessionManager, registry *integrations.Registry, listen string, maxUpload int64) *Server {
	return &Server{
		sessions:  sessions,
		registry:  registry,
		listen:    listen,
		maxUpload: maxUpload,
	}
}

// Start blocks serving HTTP until the listener fails or Stop is called.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()

	// Pipeline endpoints
	mux.HandleFunc("/api/analyze", s.handleAnalyze)
	mux.HandleFunc("/api/analyze/request", s.handleRequestNew)
	mux.HandleFunc("/api/history", s.handleHistory)
	mux.HandleFunc("/api/history/view", s.handleHistoryView)
	mux.HandleFunc("/api/history/resolve", s.handleResolve)
	mux.HandleFunc("/api/history/reanalyze", s.handleReanalyze)
	mux.HandleFunc("/api/export", s.handleExport)

	// Integration registry endpoints
	mux.HandleFunc("/api/integrations", s.handleIntegrations)
	mux.HandleFunc("/api/integrations/test", s.handleIntegrationTest)

	// Operational endpoints
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	s.httpServer = &http.Server{
		Addr:              s.listen,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Named(ctx, "api").Infof("Analysis API starting on %s", s.listen)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop shuts the listener down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// session resolves the caller's session from the X-Session-ID header.
// Absent header falls back to the shared default session.
func (s *Server) session(r *http.Request) *analysis.Session {
	return s.sessions.Session(r.Header.Get("X-Session-ID"))
}
