package admin

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Angioz/MCP-LEGAL-ADVISOR/auth"
	"github.com/Angioz/MCP-LEGAL-ADVISOR/cache"
	"github.com/Angioz/MCP-LEGAL-ADVISOR/health"
	"github.com/Angioz/MCP-LEGAL-ADVISOR/observe"
	"github.com/Angioz/MCP-LEGAL-ADVISOR/tools"
)

// Server wires the HTTP surface over the dispatcher, cache, and health
// aggregator.
type Server struct {
	cache      *cache.Cache
	dispatcher *tools.Dispatcher
	registry   *tools.Registry
	aggregator *health.Aggregator
	authn      auth.Authenticator
	log        observe.Logger
}

// Config assembles a Server.
type Config struct {
	Cache      *cache.Cache
	Dispatcher *tools.Dispatcher
	Registry   *tools.Registry
	Aggregator *health.Aggregator

	// Authenticator guards the /admin routes. Nil allows everything.
	Authenticator auth.Authenticator

	Logger observe.Logger
}

// NewServer creates a Server.
func NewServer(cfg Config) *Server {
	s := &Server{
		cache:      cfg.Cache,
		dispatcher: cfg.Dispatcher,
		registry:   cfg.Registry,
		aggregator: cfg.Aggregator,
		authn:      cfg.Authenticator,
		log:        cfg.Logger,
	}
	if s.authn == nil {
		s.authn = auth.AllowAll{}
	}
	if s.log == nil {
		s.log = observe.NopLogger()
	}
	return s
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", health.LivenessHandler())
	mux.HandleFunc("GET /readyz", health.ReadinessHandler(s.aggregator))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /v1/tools", s.handleListTools)
	mux.HandleFunc("POST /v1/tools/execute", s.handleExecute)

	mux.Handle("GET /admin/cache/stats", auth.Require(s.authn, http.HandlerFunc(s.handleCacheStats)))
	mux.Handle("POST /admin/cache/clear", auth.Require(s.authn, http.HandlerFunc(s.handleCacheClear)))
	mux.Handle("POST /admin/cache/invalidate", auth.Require(s.authn, http.HandlerFunc(s.handleCacheInvalidate)))

	return mux
}

// toolInfo is the listing shape for one tool.
type toolInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Source      string   `json:"source"`
	Cacheable   bool     `json:"cacheable"`
	Tags        []string `json:"tags,omitempty"`
}

func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	all := s.registry.List()
	infos := make([]toolInfo, 0, len(all))
	for _, t := range all {
		infos = append(infos, toolInfo{
			Name:        t.Name,
			Description: t.Description,
			Source:      t.Source,
			Cacheable:   t.Cacheable,
			Tags:        t.Tags,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"tools": infos})
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	var req tools.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid request body"})
		return
	}
	resp := s.dispatcher.Execute(r.Context(), req)
	status := http.StatusOK
	if resp.Error != "" {
		status = http.StatusBadGateway
		if resp.Result == nil && req.Tool != "" {
			if _, known := s.registry.Lookup(req.Tool); !known {
				status = http.StatusNotFound
			}
		}
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.cache.Stats(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	source := r.URL.Query().Get("source")
	cleared, err := s.cache.Clear(r.Context(), source)
	if err != nil {
		s.log.Warn(r.Context(), "cache clear incomplete",
			observe.Field{Key: "error", Value: err.Error()})
	}
	writeJSON(w, http.StatusOK, map[string]any{"cleared": cleared})
}

func (s *Server) handleCacheInvalidate(w http.ResponseWriter, r *http.Request) {
	invalidated, err := s.cache.InvalidateExpired(r.Context())
	if err != nil {
		s.log.Warn(r.Context(), "cache sweep incomplete",
			observe.Field{Key: "error", Value: err.Error()})
	}
	writeJSON(w, http.StatusOK, map[string]any{"invalidated": invalidated})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
