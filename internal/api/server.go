package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dgallion1/docview/internal/catalog"
	"github.com/dgallion1/docview/internal/config"
	"github.com/dgallion1/docview/internal/fetch"
	"github.com/dgallion1/docview/internal/render"
	"github.com/dgallion1/docview/internal/search"
	"github.com/dgallion1/docview/internal/session"
)

// Server is the HTTP API server for docview.
type Server struct {
	router   chi.Router
	catalog  *catalog.Catalog
	index    *search.Index
	renderer *render.Renderer
	sessions *session.Manager
	stats    *fetch.Stats
	log      *slog.Logger
	cfg      config.Config
}

// Deps are the components the server exposes.
type Deps struct {
	Catalog  *catalog.Catalog
	Index    *search.Index
	Renderer *render.Renderer
	Sessions *session.Manager
	// Stats may be nil when the document source is not instrumented.
	Stats *fetch.Stats
}

// NewServer creates and configures the HTTP server.
func NewServer(deps Deps, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		catalog:  deps.Catalog,
		index:    deps.Index,
		renderer: deps.Renderer,
		sessions: deps.Sessions,
		stats:    deps.Stats,
		log:      log,
		cfg:      cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "If-None-Match"},
		ExposedHeaders: []string{"ETag"},
		MaxAge:         300,
	}))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints when an API key is configured.
	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Get("/api/navigation", s.handleNavigation)
		r.Get("/api/search", s.handleSearch)
		r.Get("/api/documents/*", s.handleDocument)

		r.Get("/api/stats/fetch", s.handleFetchStats)
		r.Get("/api/stats/cache", s.handleCacheStats)

		r.Post("/api/sessions", s.handleCreateSession)
		r.Route("/api/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Post("/events", s.handleSessionEvent)
			r.Post("/navigate", s.handleSessionNavigate)
			r.Post("/back", s.handleSessionBack)
			r.Post("/forward", s.handleSessionForward)
			r.Post("/retry", s.handleSessionRetry)
		})
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"documents": s.catalog.Len(),
		"sessions":  s.sessions.Len(),
	})
}
