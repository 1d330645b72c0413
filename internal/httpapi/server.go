package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/hamed0406/uptimehistory/internal/domain"
	"github.com/hamed0406/uptimehistory/internal/history"
	apimw "github.com/hamed0406/uptimehistory/internal/httpapi/middleware"
	"github.com/hamed0406/uptimehistory/internal/metrics"
	"github.com/hamed0406/uptimehistory/internal/sites"
)

const maxBodyBytes = 1 << 20

// HistoryService is the probe-and-record and query side used by handlers.
type HistoryService interface {
	Check(ctx context.Context, url string) bool
	History(ctx context.Context, url string, g domain.Granularity) []domain.Summary
}

type SiteLister interface {
	List() []sites.Site
}

type Server struct {
	Logger        *zap.Logger
	History       HistoryService
	Sites         SiteLister
	CheckInterval time.Duration
	// Ready reports backend reachability for /readyz; nil means always ready.
	Ready func(ctx context.Context) error
}

func NewServer(l *zap.Logger, svc HistoryService, sl SiteLister) *Server {
	return &Server{Logger: l, History: svc, Sites: sl}
}

// Router builds the HTTP handler. Reads need a public or admin key and
// probes need an admin key; with no keys configured both are open.
// A rate of zero disables the corresponding limiter.
func (s *Server) Router(keys apimw.Keys, allowedOrigins []string, publicRPM, publicBurst, adminRPM, adminBurst int) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(corsHandler(allowedOrigins))
	r.Use(s.accessLog)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", s.handleReady)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Group(func(pub chi.Router) {
			pub.Use(apimw.RateLimit(publicRPM, publicBurst))
			pub.Use(apimw.RequireAny(keys))
			pub.Get("/check", s.handleHistory)
			pub.Get("/sites", s.handleSites)
		})
		api.Group(func(adm chi.Router) {
			adm.Use(apimw.RateLimit(adminRPM, adminBurst))
			adm.Use(apimw.RequireAdmin(keys))
			adm.Post("/check", s.handleCheck)
		})
	})

	return otelhttp.NewHandler(r, "uptimehistory.http",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}

func corsHandler(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		return cors.AllowAll().Handler
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
		MaxAge:         300,
	})
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.Logger.Debug("http_request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("took", time.Since(start)),
		)
	})
}

type checkPayload struct {
	URL string `json:"url"`
}

type checkResponse struct {
	IsAvailable bool `json:"isAvailable"`
}

type historyResponse struct {
	Data []domain.Summary   `json:"data"`
	Mode domain.Granularity `json:"mode"`
}

type sitesResponse struct {
	Sites           []sites.Site `json:"sites"`
	CheckIntervalMS int64        `json:"checkInterval"`
	HistoryLength   int          `json:"historyLength"`
}

// handleCheck probes the posted URL right away and records the outcome.
// Probe and storage faults surface as isAvailable=false, never as errors.
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	var p checkPayload
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "url is required")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	target, ok := validURL(w, p.URL)
	if !ok {
		return
	}

	up := s.History.Check(r.Context(), target)
	s.Logger.Info("site_checked", zap.String("url", target), zap.Bool("up", up))
	writeJSON(w, http.StatusOK, checkResponse{IsAvailable: up})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	target, ok := validURL(w, q.Get("url"))
	if !ok {
		return
	}
	g, err := domain.ParseGranularity(q.Get("mode"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "mode must be hour or day")
		return
	}
	writeJSON(w, http.StatusOK, historyResponse{
		Data: s.History.History(r.Context(), target, g),
		Mode: g,
	})
}

func (s *Server) handleSites(w http.ResponseWriter, r *http.Request) {
	list := []sites.Site{}
	if s.Sites != nil {
		list = s.Sites.List()
	}
	writeJSON(w, http.StatusOK, sitesResponse{
		Sites:           list,
		CheckIntervalMS: s.CheckInterval.Milliseconds(),
		HistoryLength:   history.BucketCount,
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.Ready != nil {
		if err := s.Ready(r.Context()); err != nil {
			s.Logger.Warn("readiness_failed", zap.Error(err))
			writeError(w, http.StatusServiceUnavailable, "store unavailable")
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// validURL writes a 400 and reports false unless raw is an http(s) URL.
func validURL(w http.ResponseWriter, raw string) (string, bool) {
	if strings.TrimSpace(raw) == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return "", false
	}
	if !domain.ValidHTTPURL(raw) {
		writeError(w, http.StatusBadRequest, "url must be an absolute http(s) URL")
		return "", false
	}
	return domain.NormalizeURL(raw), true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
