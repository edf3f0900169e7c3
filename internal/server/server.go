// Package server exposes the construction pipeline as a small HTTP service.
//
// Endpoints:
//
//	POST /v1/pathways/build     - build a pathway from content items
//	POST /v1/pathways/validate  - validate a pathway document
//	GET  /v1/pathways           - list stored pathways
//	GET  /v1/pathways/{id}      - fetch one stored pathway
//	GET  /healthz               - liveness probe
//	GET  /metrics               - Prometheus metrics
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	pferrors "github.com/pathforge/pathforge/pkg/errors"
	"github.com/pathforge/pathforge/pkg/pathway"
	"github.com/pathforge/pathforge/pkg/pipeline"
	"github.com/pathforge/pathforge/pkg/store"
	"github.com/pathforge/pathforge/pkg/transform/validate"
)

// DefaultAddr is the default listen address.
const DefaultAddr = ":8080"

// Options configures the service.
type Options struct {
	// Addr is the listen address. Defaults to DefaultAddr.
	Addr string

	// Runner executes pipeline builds. Required.
	Runner *pipeline.Runner

	// Store persists built pathways. Nil disables persistence.
	Store store.Store

	// Pipeline is the base configuration applied to every build request.
	Pipeline pipeline.Options

	// Logger receives request logs.
	Logger *log.Logger
}

// ValidateAndSetDefaults checks required fields and applies defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Runner == nil {
		return pferrors.New(pferrors.ErrCodeInvalidInput, "runner is required")
	}
	if o.Addr == "" {
		o.Addr = DefaultAddr
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// Server is the HTTP service.
type Server struct {
	opts      Options
	validator *validate.Validator
}

// New creates a server.
func New(opts Options) (*Server, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return &Server{opts: opts, validator: validate.NewValidator()}, nil
}

// Handler returns the HTTP handler with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1/pathways", func(r chi.Router) {
		r.Post("/build", s.handleBuild)
		r.Post("/validate", s.handleValidate)
		r.Get("/", s.handleList)
		r.Get("/{id}", s.handleGet)
	})
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.opts.Logger.Info("server listening", "addr", s.opts.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// =============================================================================
// Handlers
// =============================================================================

// buildRequest is the body of POST /v1/pathways/build.
type buildRequest struct {
	Name    string                 `json:"name,omitempty"`
	Items   []pipeline.ContentItem `json:"items"`
	Refresh bool                   `json:"refresh,omitempty"`
}

// buildResponse is the body of a successful build.
type buildResponse struct {
	Name        string                    `json:"name"`
	ContentHash string                    `json:"content_hash"`
	Pathway     *pathway.Pathway          `json:"pathway"`
	Findings    []pathway.ValidationError `json:"findings"`
	Valid       bool                      `json:"valid"`
	NodeCount   int                       `json:"node_count"`
	EdgeCount   int                       `json:"edge_count"`
	FromCache   bool                      `json:"from_cache"`
}

func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	var req buildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, pferrors.Wrap(pferrors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}

	opts := s.opts.Pipeline
	opts.PathwayName = req.Name
	opts.Refresh = req.Refresh

	result, err := s.opts.Runner.Execute(r.Context(), req.Items, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if s.opts.Store != nil {
		rec := &store.Record{
			ID:          result.ContentHash,
			Name:        result.Name,
			ContentHash: result.ContentHash,
			Pathway:     result.Pathway,
		}
		if err := s.opts.Store.Put(r.Context(), rec); err != nil {
			s.opts.Logger.Warn("failed to persist pathway", "error", err)
		}
	}

	findings := result.Findings
	if findings == nil {
		findings = []pathway.ValidationError{}
	}
	s.writeJSON(w, http.StatusOK, buildResponse{
		Name:        result.Name,
		ContentHash: result.ContentHash,
		Pathway:     result.Pathway,
		Findings:    findings,
		Valid:       result.Valid(),
		NodeCount:   result.Stats.NodeCount,
		EdgeCount:   result.Stats.EdgeCount,
		FromCache:   result.CacheInfo.PathwayHit,
	})
}

// validateResponse is the body of POST /v1/pathways/validate.
type validateResponse struct {
	Findings []pathway.ValidationError `json:"findings"`
	Valid    bool                      `json:"valid"`
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	p, err := pathway.Read(r.Body)
	if err != nil {
		s.writeError(w, pferrors.Wrap(pferrors.ErrCodeInvalidInput, err, "invalid pathway document"))
		return
	}

	findings := s.validator.Validate(p)
	if findings == nil {
		findings = []pathway.ValidationError{}
	}
	s.writeJSON(w, http.StatusOK, validateResponse{
		Findings: findings,
		Valid:    len(findings) == 0,
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	if s.opts.Store == nil {
		s.writeError(w, pferrors.New(pferrors.ErrCodeUnsupported, "no store configured"))
		return
	}
	records, err := s.opts.Store.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	type summary struct {
		ID        string    `json:"id"`
		Name      string    `json:"name"`
		UpdatedAt time.Time `json:"updated_at"`
	}
	out := make([]summary, 0, len(records))
	for _, rec := range records {
		out = append(out, summary{ID: rec.ID, Name: rec.Name, UpdatedAt: rec.UpdatedAt})
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	if s.opts.Store == nil {
		s.writeError(w, pferrors.New(pferrors.ErrCodeUnsupported, "no store configured"))
		return
	}
	id := chi.URLParam(r, "id")
	rec, err := s.opts.Store.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		s.writeError(w, pferrors.New(pferrors.ErrCodePathwayNotFound, "pathway %s not found", id))
		return
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// Responses
// =============================================================================

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.opts.Logger.Error("encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := pferrors.GetCode(err)
	status := statusFor(code)
	if code == "" {
		code = pferrors.ErrCodeInternal
	}
	s.writeJSON(w, status, errorResponse{Code: string(code), Message: pferrors.UserMessage(err)})
}

func statusFor(code pferrors.Code) int {
	switch code {
	case pferrors.ErrCodeInvalidInput, pferrors.ErrCodeInvalidPathway,
		pferrors.ErrCodeNoContent, pferrors.ErrCodeNoNodes:
		return http.StatusBadRequest
	case pferrors.ErrCodeNotFound, pferrors.ErrCodePathwayNotFound:
		return http.StatusNotFound
	case pferrors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case pferrors.ErrCodeForbidden:
		return http.StatusForbidden
	case pferrors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case pferrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case pferrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
