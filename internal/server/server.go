package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/legistyr/termbench/internal/history"
)

// Config holds server configuration.
type Config struct {
	Port      int
	CSVDir    string // directory with structured run artifacts
	TXTDir    string // directory with plain-text run artifacts
	ReportDir string // directory with rendered reports
	AllowAll  bool   // allow all CORS origins (dev mode)
}

// Server exposes the run ledger and the artifact directories over HTTP so
// results can be browsed without shelling into the benchmark box.
type Server struct {
	cfg        Config
	store      *history.Store
	router     chi.Router
	httpServer *http.Server
}

// New creates a server around the given run ledger.
func New(cfg Config, store *history.Store) *Server {
	s := &Server{
		cfg:   cfg,
		store: store,
	}

	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	history.RegisterRoutes(r, s.store)

	// Raw artifacts straight off disk.
	r.Handle("/artifacts/csv/*", http.StripPrefix("/artifacts/csv/", http.FileServer(http.Dir(s.cfg.CSVDir))))
	r.Handle("/artifacts/txt/*", http.StripPrefix("/artifacts/txt/", http.FileServer(http.Dir(s.cfg.TXTDir))))
	r.Handle("/reports/*", http.StripPrefix("/reports/", http.FileServer(http.Dir(s.cfg.ReportDir))))

	return r
}

// Router returns the chi router, mainly for tests.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("termbench server listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
