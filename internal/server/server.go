// Package server exposes the ingestion and question-answering flows over
// HTTP: JSON REST endpoints plus a websocket chat endpoint.
package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ziadkadry99/linkbase/internal/bot"
	"github.com/ziadkadry99/linkbase/internal/config"
	"github.com/ziadkadry99/linkbase/internal/rag"
)

// Server is the linkbase HTTP server.
type Server struct {
	cfg        config.ServerConfig
	registry   *rag.Registry
	bot        *bot.Router
	router     chi.Router
	httpServer *http.Server
}

// New creates a server around the bot router and manager registry.
func New(cfg config.ServerConfig, registry *rag.Registry, botRouter *bot.Router) *Server {
	s := &Server{
		cfg:      cfg,
		registry: registry,
		bot:      botRouter,
	}
	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	origins := s.cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// The websocket session is long-lived and carries no deadline.
	r.Get("/ws", s.handleWebSocket)

	r.Route("/api", func(r chi.Router) {
		// Ingestion and answering can legitimately run for minutes: video
		// caption fetching backs off between attempts and the tiered
		// pipeline carries no aggregate deadline of its own. Only the
		// metadata routes get a short timeout.
		slow := middleware.Timeout(10 * time.Minute)
		fast := middleware.Timeout(30 * time.Second)

		r.With(slow).Post("/chat", s.handleChat)
		r.Route("/users/{userID}", func(r chi.Router) {
			r.With(fast).Get("/documents", s.handleListDocuments)
			r.With(fast).Delete("/documents", s.handleClearDocuments)
			r.With(fast).Delete("/documents/{docID}", s.handleDeleteDocument)
			r.With(slow).Post("/links", s.handleAddLink)
			r.With(slow).Post("/questions", s.handleQuestion)
		})
	})

	return r
}

// Router returns the chi router, mainly for tests.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the given address.
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		// WriteTimeout must outlast the slow ingestion routes; per-route
		// timeouts bound the handlers instead.
		WriteTimeout: 15 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("linkbase server listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("server: encoding response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
