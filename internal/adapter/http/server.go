// Package http serves the upload form, rendered reports, summary CSV
// downloads and the operational endpoints.
package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/shoreline-analysis/internal/domain"
	"github.com/couchcryptid/shoreline-analysis/internal/pipeline"
	"github.com/couchcryptid/shoreline-analysis/internal/render"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Analyzer turns one upload into a report.
type Analyzer interface {
	Run(ctx context.Context, up pipeline.Upload) (domain.Report, error)
}

// Options tunes request handling.
type Options struct {
	MaxUploadBytes int64
	DefaultMode    domain.Mode
}

// Server exposes the analysis UI plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	handler    http.Handler
	analyzer   Analyzer
	renderer   *render.Renderer
	opts       Options
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the UI routes and /healthz, /readyz,
// and /metrics. Responses are gzip-compressed when the client accepts it.
func NewServer(addr string, analyzer Analyzer, ready sharedobs.ReadinessChecker, renderer *render.Renderer, opts Options, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		handler:  gzhttp.GzipHandler(mux),
		analyzer: analyzer,
		renderer: renderer,
		opts:     opts,
		logger:   logger,
	}
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /report", s.handleReport)
	mux.HandleFunc("POST /report/summary.csv", s.handleSummaryCSV)

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderIndex(w, r, http.StatusOK, "")
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	report, ok := s.analyze(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := s.renderer.Report(&buf, report); err != nil {
		s.logger.Error("render report failed", "report_id", report.ID, "error", err)
		s.renderIndex(w, r, http.StatusInternalServerError, "The report could not be rendered.")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleSummaryCSV(w http.ResponseWriter, r *http.Request) {
	report, ok := s.analyze(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := render.WriteSummaryCSV(&buf, report.Summaries()); err != nil {
		s.logger.Error("write summary csv failed", "report_id", report.ID, "error", err)
		http.Error(w, "summary export failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", render.SummaryFilename(report)))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// analyze reads the upload form and runs the analysis. On failure it writes
// the error page and returns false.
func (s *Server) analyze(w http.ResponseWriter, r *http.Request) (domain.Report, bool) {
	up, closeFile, err := s.readUpload(w, r)
	if err != nil {
		s.fail(w, r, err)
		return domain.Report{}, false
	}
	defer closeFile()

	report, err := s.analyzer.Run(r.Context(), up)
	if err != nil {
		s.fail(w, r, err)
		return domain.Report{}, false
	}
	return report, true
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		s.logger.Error("analysis failed", "error", err)
		msg = "The upload could not be analyzed."
	} else {
		s.logger.Info("upload rejected", "status", status, "error", err)
	}
	s.renderIndex(w, r, status, msg)
}

func (s *Server) renderIndex(w http.ResponseWriter, _ *http.Request, status int, msg string) {
	var buf bytes.Buffer
	if err := s.renderer.Index(&buf, render.IndexData{Error: msg, DefaultMode: s.opts.DefaultMode}); err != nil {
		s.logger.Error("render index failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// statusFor maps analysis and form errors to HTTP status codes.
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errBadForm):
		return http.StatusBadRequest
	case pipeline.IsUserError(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
