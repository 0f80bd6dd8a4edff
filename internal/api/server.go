package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mdtree/mdtree/internal/config"
	"github.com/mdtree/mdtree/internal/mdast"
	"github.com/mdtree/mdtree/internal/syntaxtree"
)

// Server is the HTTP API server for mdtree.
type Server struct {
	router    chi.Router
	converter *mdast.Converter
	builder   *syntaxtree.Builder
	log       *slog.Logger
	cfg       config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(conv *mdast.Converter, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		converter: conv,
		builder:   syntaxtree.NewBuilder(),
		log:       log,
		cfg:       cfg,
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

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/convert", s.handleConvert)
		r.Post("/api/text", s.handleText)
		r.Post("/api/html", s.handleHTML)
		r.Post("/api/frontmatter", s.handleFrontmatter)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
