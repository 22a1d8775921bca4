package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/vps-compare/internal/config"
	"github.com/vps-compare/internal/content"
	"github.com/vps-compare/internal/controller"
	"github.com/vps-compare/internal/domain"
	"github.com/vps-compare/internal/logging"
	"github.com/vps-compare/internal/provider"
)

// Server exposes the comparison API over HTTP
type Server struct {
	port    int
	logger  *logging.Logger
	cfg     *config.Config
	ctrl    *controller.Controller
	sources map[domain.DataSource]*controller.Controller
	limiter *RateLimiter
	mux     *http.ServeMux
	checker domain.HealthChecker
}

// NewServer creates a new web server over the given controller
func NewServer(ctrl *controller.Controller, cfg *config.Config) *Server {
	logger, err := logging.New(logging.Config{
		Level:       logging.ParseLevel(cfg.Logging.Level),
		LogDir:      cfg.Logging.LogDir,
		EnableFile:  cfg.Logging.EnableFile,
		EnableColor: cfg.Logging.EnableColor,
		Component:   "web",
	})
	if err != nil {
		logger = logging.GetDefault()
	}

	s := &Server{
		port:    cfg.Server.Port,
		logger:  logger,
		cfg:     cfg,
		ctrl:    ctrl,
		sources: map[domain.DataSource]*controller.Controller{ctrl.Source(): ctrl},
		limiter: NewRateLimiter(100, time.Minute),
		mux:     http.NewServeMux(),
		checker: provider.NewWebsiteHealthChecker(cfg.Data.HTTPTimeout),
	}
	s.routes()
	return s
}

// SetHealthChecker replaces the provider reachability probe, mainly so
// tests can stub the outbound pings.
func (s *Server) SetHealthChecker(checker domain.HealthChecker) {
	s.checker = checker
}

// RegisterSource makes an additional data source selectable through the
// listing's source query parameter.
func (s *Server) RegisterSource(ctrl *controller.Controller) {
	s.sources[ctrl.Source()] = ctrl
}

// controllerFor resolves the controller for a request. An unknown or
// absent source parameter keeps the default.
func (s *Server) controllerFor(r *http.Request) *controller.Controller {
	if raw := r.URL.Query().Get("source"); raw != "" {
		if ctrl, ok := s.sources[domain.ParseDataSource(raw)]; ok {
			return ctrl
		}
	}
	return s.ctrl
}

func (s *Server) routes() {
	s.mux.HandleFunc("/api/plans", s.limiter.Middleware(s.handlePlans))
	s.mux.HandleFunc("/api/plans/", s.limiter.Middleware(s.handlePlanByID))
	s.mux.HandleFunc("/api/providers", s.limiter.Middleware(s.handleProviders))
	s.mux.HandleFunc("/api/filters", s.limiter.Middleware(s.handleFilters))
	s.mux.HandleFunc("/api/posts", s.limiter.Middleware(s.handlePosts))
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/cache/status", s.handleCacheStatus)
	s.mux.HandleFunc("/api/cache/refresh", s.handleCacheRefresh)
	s.mux.HandleFunc("/rss.xml", s.handleRSS)
	s.mux.HandleFunc("/sitemap.xml", s.handleSitemap)
}

// Handler returns the full middleware-wrapped handler, for tests and Lambda
func (s *Server) Handler() http.Handler {
	return RequestLogger(s.logger, s.mux)
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("Starting comparison API at http://localhost%s", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}
	return srv.ListenAndServe()
}

// PlansResponse is the listing envelope. The page and its pagination
// metadata travel together under data; lastUpdated is the server time of
// the response, never derived from record timestamps.
type PlansResponse struct {
	Success     bool               `json:"success"`
	Data        domain.QueryResult `json:"data"`
	Source      string             `json:"source"`
	LastUpdated string             `json:"lastUpdated"`
	Error       string             `json:"error,omitempty"`
}

// parseQuery builds a Query from URL parameters. Parsing is permissive:
// malformed numbers fall back to defaults rather than failing the request.
func (s *Server) parseQuery(r *http.Request) domain.Query {
	params := r.URL.Query()

	q := domain.DefaultQuery()
	q.PageSize = s.cfg.Query.DefaultPageSize
	q.Provider = params.Get("provider")
	q.Type = params.Get("type")

	if v, err := strconv.ParseFloat(params.Get("minPrice"), 64); err == nil {
		q.MinPrice = v
	}
	if v, err := strconv.ParseFloat(params.Get("maxPrice"), 64); err == nil {
		q.MaxPrice = v
	}
	if v, err := strconv.Atoi(params.Get("page")); err == nil {
		q.Page = v
	}
	if v, err := strconv.Atoi(params.Get("pageSize")); err == nil {
		q.PageSize = v
	}
	if q.PageSize > s.cfg.Query.MaxPageSize {
		q.PageSize = s.cfg.Query.MaxPageSize
	}

	if key, ok := domain.ParseSortKey(params.Get("sortBy")); ok {
		q.SortBy = key
	}
	q.SortOrder = domain.ParseSortOrder(params.Get("sortOrder"))

	return q.Normalized()
}

func (s *Server) handlePlans(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	if r.Method == "OPTIONS" {
		return
	}
	if r.Method != "GET" {
		s.sendError(w, http.StatusMethodNotAllowed, "Method not allowed, use GET")
		return
	}

	ctrl := s.controllerFor(r)
	q := s.parseQuery(r)
	result, err := ctrl.ListPlans(r.Context(), q)
	if err != nil {
		s.logger.Error("Plan listing failed: %v", err)
		s.sendError(w, http.StatusInternalServerError, "Failed to load plan listing")
		return
	}

	json.NewEncoder(w).Encode(PlansResponse{
		Success:     true,
		Data:        result,
		Source:      ctrl.Source().String(),
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
	})
}

// PlanDetailResponse is the single-plan envelope
type PlanDetailResponse struct {
	Success     bool          `json:"success"`
	Data        domain.Plan   `json:"data"`
	Siblings    []domain.Plan `json:"siblings"`
	LastUpdated string        `json:"lastUpdated"`
	Error       string        `json:"error,omitempty"`
}

func (s *Server) handlePlanByID(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	if r.Method != "GET" {
		s.sendError(w, http.StatusMethodNotAllowed, "Method not allowed, use GET")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/plans/")
	if id == "" || strings.Contains(id, "/") {
		s.sendError(w, http.StatusNotFound, "Plan not found")
		return
	}

	plan, siblings, err := s.ctrl.GetPlan(r.Context(), id)
	if errors.Is(err, domain.ErrPlanNotFound) {
		s.sendError(w, http.StatusNotFound, "Plan not found")
		return
	}
	if err != nil {
		s.logger.Error("Plan lookup failed: %v", err)
		s.sendError(w, http.StatusInternalServerError, "Failed to load plan")
		return
	}

	json.NewEncoder(w).Encode(PlanDetailResponse{
		Success:     true,
		Data:        plan,
		Siblings:    siblings,
		LastUpdated: plan.LastUpdated.Format(time.RFC3339),
	})
}

func (s *Server) handleProviders(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	providers, err := s.ctrl.Providers(r.Context())
	if err != nil {
		s.logger.Error("Provider listing failed: %v", err)
		s.sendError(w, http.StatusInternalServerError, "Failed to load providers")
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"data":    providers,
		"total":   len(providers),
	})
}

func (s *Server) handleFilters(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	opts, err := s.ctrl.Filters(r.Context())
	if err != nil {
		s.logger.Error("Filter options failed: %v", err)
		s.sendError(w, http.StatusInternalServerError, "Failed to load filter options")
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"data":    opts,
	})
}

func (s *Server) handlePosts(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"data":    content.Posts(),
	})
}

// HealthResponse represents the health check response: one reachability
// entry per provider plus an overall healthy/degraded verdict.
type HealthResponse struct {
	Status    string                      `json:"status"`
	Timestamp string                      `json:"timestamp"`
	Source    string                      `json:"source"`
	PlanCount int                         `json:"planCount"`
	Checks    map[string]string           `json:"checks"`
	Providers []controller.ProviderHealth `json:"providers"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		Source:    s.ctrl.Source().String(),
		Checks:    map[string]string{"source": "ok"},
	}

	result, err := s.ctrl.ListPlans(r.Context(), domain.DefaultQuery())
	if err != nil {
		resp.Status = "degraded"
		resp.Checks["source"] = err.Error()
	} else {
		resp.PlanCount = result.Total
	}

	checks, err := s.ctrl.CheckProviders(r.Context(), s.checker)
	if err != nil {
		resp.Status = "degraded"
		resp.Checks["providers"] = err.Error()
	} else {
		resp.Providers = checks
		for _, c := range checks {
			if c.Status.Status == "unreachable" || c.Status.Status == "degraded" {
				resp.Status = "degraded"
			}
		}
	}

	json.NewEncoder(w).Encode(resp)
}

// CacheStatusResponse reports shared cache state
type CacheStatusResponse struct {
	Hits        int64    `json:"hits"`
	Misses      int64    `json:"misses"`
	Items       int      `json:"items"`
	Keys        []string `json:"keys"`
	LastRefresh string   `json:"lastRefresh"`
	TTLHours    float64  `json:"ttlHours"`
}

func (s *Server) handleCacheStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	cache := provider.GetCacheManager()
	stats := cache.GetStats()

	lastRefresh := cache.GetLastRefresh()
	lastRefreshStr := "never"
	if !lastRefresh.IsZero() {
		lastRefreshStr = lastRefresh.Format(time.RFC3339)
	}

	resp := CacheStatusResponse{
		Hits:        stats.Hits,
		Misses:      stats.Misses,
		Items:       stats.Items,
		Keys:        cache.Keys(),
		LastRefresh: lastRefreshStr,
		TTLHours:    cache.GetTTL().Hours(),
	}

	s.logger.Info("Cache status: items=%d hits=%d misses=%d", stats.Items, stats.Hits, stats.Misses)
	json.NewEncoder(w).Encode(resp)
}

func (s *Server) handleCacheRefresh(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")

	if r.Method == "OPTIONS" {
		return
	}

	if r.Method != "POST" {
		s.sendError(w, http.StatusMethodNotAllowed, "Method not allowed, use POST")
		return
	}

	cache := provider.GetCacheManager()
	itemsBefore := len(cache.Keys())
	s.ctrl.RefreshCache()

	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":      true,
		"message":      fmt.Sprintf("Cache cleared: %d items removed", itemsBefore),
		"itemsCleared": itemsBefore,
		"refreshTime":  time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleRSS(w http.ResponseWriter, r *http.Request) {
	feed, err := content.BuildFeed(s.cfg.Site.BaseURL, s.cfg.Site.Title, content.Posts())
	if err != nil {
		s.logger.Error("Feed rendering failed: %v", err)
		http.Error(w, "feed unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.Write(feed)
}

func (s *Server) handleSitemap(w http.ResponseWriter, r *http.Request) {
	sitemapQuery := domain.DefaultQuery()
	sitemapQuery.PageSize = s.cfg.Query.MaxPageSize
	result, err := s.ctrl.ListPlans(r.Context(), sitemapQuery)
	if err != nil {
		s.logger.Error("Sitemap listing failed: %v", err)
		http.Error(w, "sitemap unavailable", http.StatusInternalServerError)
		return
	}

	sitemap, err := content.BuildSitemap(s.cfg.Site.BaseURL, result.Plans, content.Posts())
	if err != nil {
		s.logger.Error("Sitemap rendering failed: %v", err)
		http.Error(w, "sitemap unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Write(sitemap)
}

func (s *Server) sendError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":     false,
		"error":       msg,
		"lastUpdated": time.Now().UTC().Format(time.RFC3339),
	})
}
