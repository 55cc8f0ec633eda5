// Package http exposes a finalized plan over a small read-only HTTP
// surface, so running deployments can be inspected without shipping the
// plan file around: the serialized plan, its Mermaid rendering, a health
// probe and Prometheus metrics.
package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/facewire/facewire/internal/logging"
	presentation "github.com/facewire/facewire/internal/presentation/graph"
	"github.com/facewire/facewire/pkg/graph"
)

// Server serves one immutable plan.
type Server struct {
	plan     *graph.Plan
	logger   *slog.Logger
	requests *prometheus.CounterVec
}

// NewHandler creates the inspection handler for a plan.
func NewHandler(plan *graph.Plan, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = logging.NewNop()
	}
	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "facewire_inspector_requests_total",
			Help: "Total inspection requests served, by endpoint.",
		},
		[]string{"endpoint"},
	)
	promReg := prometheus.NewRegistry()
	promReg.MustRegister(requests)

	s := &Server{plan: plan, logger: logger, requests: requests}

	r := chi.NewRouter()
	r.Get("/plan", s.getPlan)
	r.Get("/graph", s.getGraph)
	r.Get("/healthz", s.healthz)
	r.Handle("/metrics", promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}))
	return r
}

// getPlan handles GET /plan: the serialized plan as YAML.
func (s *Server) getPlan(w http.ResponseWriter, r *http.Request) {
	s.requests.WithLabelValues("plan").Inc()
	data, err := s.plan.Encode()
	if err != nil {
		s.logger.Error("encoding plan", "error", err)
		http.Error(w, "failed to encode plan", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/yaml")
	w.Write(data)
}

// getGraph handles GET /graph: the plan as a Mermaid flowchart.
func (s *Server) getGraph(w http.ResponseWriter, r *http.Request) {
	s.requests.WithLabelValues("graph").Inc()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(presentation.GenerateMermaid(s.plan)))
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
