// Package http exposes a running tree over a small introspection API:
// status, blackboard contents, coverage and a Mermaid graph, plus the
// Prometheus metrics endpoint.
package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/arbor/pkg/tree"
)

// Engine is the surface the server introspects. The library facade
// implements it.
type Engine interface {
	Status() (root string, status string, ticks int)
	Keys(pattern string) ([]string, error)
	BlackboardSnapshot() map[string]any
	CoverageReport() []tree.NodeCoverage
	CoverageSummary() tree.CoverageSummary
	Graph() string
}

// StatusReport is the tree-level view returned by GET /status.
type StatusReport struct {
	Root   string `json:"root"`
	Status string `json:"status"`
	Ticks  int    `json:"ticks"`
}

// Server routes introspection requests to an engine.
type Server struct {
	Engine Engine
}

// NewHandler creates the HTTP handler for the engine.
func NewHandler(engine Engine) http.Handler {
	server := &Server{Engine: engine}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/status", server.GetStatus)
	r.Get("/keys", server.GetKeys)
	r.Get("/blackboard", server.GetBlackboard)
	r.Get("/coverage", server.GetCoverage)
	r.Get("/graph", server.GetGraph)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// GetStatus handles the GET /status request.
func (s *Server) GetStatus(w http.ResponseWriter, r *http.Request) {
	root, status, ticks := s.Engine.Status()
	writeJSON(w, StatusReport{Root: root, Status: status, Ticks: ticks})
}

// GetKeys handles the GET /keys request. An optional ?pattern= query
// filters keys by regular expression.
func (s *Server) GetKeys(w http.ResponseWriter, r *http.Request) {
	keys, err := s.Engine.Keys(r.URL.Query().Get("pattern"))
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid pattern: %v", err), http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string][]string{"keys": keys})
}

// GetBlackboard handles the GET /blackboard request.
func (s *Server) GetBlackboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Engine.BlackboardSnapshot())
}

type coverageResponse struct {
	Summary tree.CoverageSummary `json:"summary"`
	Nodes   []tree.NodeCoverage  `json:"nodes"`
}

// GetCoverage handles the GET /coverage request.
func (s *Server) GetCoverage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, coverageResponse{
		Summary: s.Engine.CoverageSummary(),
		Nodes:   s.Engine.CoverageReport(),
	})
}

// GetGraph handles the GET /graph request, returning Mermaid text.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, s.Engine.Graph())
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Encode error", http.StatusInternalServerError)
	}
}
