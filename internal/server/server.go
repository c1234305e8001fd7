package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/varoOP/toplists/internal/catalog"
	"github.com/varoOP/toplists/internal/domain"
	"github.com/varoOP/toplists/internal/metrics"
)

// Info is the diagnostic document served at GET /.
type Info struct {
	OK            bool       `json:"ok"`
	Source        string     `json:"source"`
	Items         int        `json:"items"`
	PageSize      int        `json:"pageSize"`
	LiveURL       string     `json:"liveUrl"`
	LiveTTL       string     `json:"liveTtl"`
	LiveFetchedAt *time.Time `json:"liveFetchedAt,omitempty"`
	Endpoints     []string   `json:"endpoints"`
	Tip           string     `json:"tip"`
}

// InfoFunc builds the diagnostic document on demand.
type InfoFunc func() Info

type Server struct {
	log      zerolog.Logger
	cfg      *domain.Config
	registry *catalog.Registry
	manifest domain.Manifest
	info     InfoFunc
	router   chi.Router
}

func New(log zerolog.Logger, cfg *domain.Config, registry *catalog.Registry, manifest domain.Manifest, info InfoFunc) *Server {
	s := &Server{
		log:      log.With().Str("module", "server").Logger(),
		cfg:      cfg,
		registry: registry,
		manifest: manifest,
		info:     info,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(cors)

	r.Get("/", s.handleRoot)
	r.Get("/manifest.json", s.handleManifest)
	r.Get("/catalog/{type}/{id}.json", s.handleCatalog)
	r.Get("/catalog/{type}/{id}/{extra}.json", s.handleCatalog)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	return r
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	// The write timeout must outlast a live refresh.
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: s.cfg.LiveTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("Starting server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "server error")
	case <-ctx.Done():
	}

	s.log.Info().Msg("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "failed to shut down server")
	}
	return nil
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.info())
}

func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.manifest)
}

// handleCatalog always answers 200. Unknown catalogs and failing sources
// produce an empty list so probing clients never see an error status.
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	typ := domain.CatalogType(chi.URLParam(r, "type"))
	id := chi.URLParam(r, "id")
	skip := catalog.ParseSkip(skipParam(r))

	page, err := s.registry.Query(r.Context(), typ, id, skip)
	switch {
	case errors.Is(err, domain.ErrCatalogNotFound):
		metrics.CatalogRequests.WithLabelValues("unknown", "unknown", "not_found").Inc()
		s.log.Debug().Str("type", string(typ)).Str("id", id).Msg("unknown catalog requested")
		writeJSON(w, http.StatusOK, domain.EmptyPage())
		return
	case err != nil:
		metrics.CatalogRequests.WithLabelValues(string(typ), id, "error").Inc()
		s.log.Error().Err(err).Str("type", string(typ)).Str("id", id).Msg("catalog query failed")
		writeJSON(w, http.StatusOK, domain.EmptyPage())
		return
	}

	metrics.CatalogRequests.WithLabelValues(string(typ), id, "ok").Inc()
	writeJSON(w, http.StatusOK, page)
}

// skipParam reads skip from the query string, or from the path-encoded extra
// segment clients send as /catalog/{type}/{id}/skip=50.json.
func skipParam(r *http.Request) string {
	if extra := chi.URLParam(r, "extra"); extra != "" {
		if values, err := url.ParseQuery(extra); err == nil && values.Has("skip") {
			return values.Get("skip")
		}
	}
	return r.URL.Query().Get("skip")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// cors allows any origin; the addon is read-only and fetched from browsers.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Headers", "*")
		h.Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("query", strings.TrimSpace(r.URL.RawQuery)).
			Str("remote", r.RemoteAddr).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}
