package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/contentloop/contentloop/internal/analytics"
	"github.com/contentloop/contentloop/internal/audit"
	"github.com/contentloop/contentloop/internal/retrieval"
	"github.com/contentloop/contentloop/internal/vectordb"
)

// Config holds server configuration.
type Config struct {
	Port     int
	AllowAll bool // allow all CORS origins (dev mode)
}

// Server is the contentloop HTTP API server: retrieval, analytics, and
// administrative endpoints over one shared vector store.
type Server struct {
	cfg        Config
	store      vectordb.Store
	retriever  *retrieval.System
	analyzer   *analytics.System
	auditor    *audit.Store
	router     chi.Router
	httpServer *http.Server
}

// New creates a server with all dependencies wired. auditor may be nil.
func New(cfg Config, store vectordb.Store, retriever *retrieval.System, analyzer *analytics.System, auditor *audit.Store) *Server {
	s := &Server{
		cfg:       cfg,
		store:     store,
		retriever: retriever,
		analyzer:  analyzer,
		auditor:   auditor,
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
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
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

	r.Get("/api/stats", s.handleStats)
	r.Post("/api/admin/clear", s.handleClear)

	// Feature packages register their own routes.
	retrieval.RegisterRoutes(r, s.retriever)
	analytics.RegisterRoutes(r, s.analyzer)
	if s.auditor != nil {
		audit.RegisterRoutes(r, s.auditor)
	}

	return r
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.retriever.Stats())
}

// clearRequest names the collection to reset. "all" resets every collection.
type clearRequest struct {
	Collection string `json:"collection"`
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	var req clearRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.Collection == "" {
		http.Error(w, "collection is required", http.StatusBadRequest)
		return
	}

	var targets []vectordb.Collection
	if req.Collection == "all" {
		targets = vectordb.Collections
	} else {
		col := vectordb.Collection(req.Collection)
		found := false
		for _, known := range vectordb.Collections {
			if known == col {
				found = true
				break
			}
		}
		if !found {
			http.Error(w, fmt.Sprintf("unknown collection %q", req.Collection), http.StatusBadRequest)
			return
		}
		targets = []vectordb.Collection{col}
	}

	for _, col := range targets {
		if err := s.store.Clear(r.Context(), col); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if s.auditor != nil {
			err := s.auditor.Log(r.Context(), audit.Entry{
				Action:     audit.ActionCollectionClear,
				Collection: string(col),
				Detail:     "cleared via API",
			})
			if err != nil {
				log.Printf("audit log failed for clear of %s: %v", col, err)
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"cleared": req.Collection,
	})
}

// Router returns the chi router for registering additional routes.
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

	log.Printf("contentloop server listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
