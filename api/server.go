// Package api provides the HTTP API server: query answering, sector
// overview, scheduler status, and a WebSocket chat endpoint.
package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/chipsight/chipsight/internal/config"
	"github.com/chipsight/chipsight/internal/monitor"
	"github.com/chipsight/chipsight/internal/scheduler"
	"github.com/chipsight/chipsight/pkg/models"
)

// Answerer runs the answer pipeline for one query.
type Answerer interface {
	Answer(ctx context.Context, query string) (models.Answer, error)
}

// SectorSource provides the sector overview endpoint's data.
type SectorSource interface {
	Overview(ctx context.Context) (*monitor.SectorOverview, error)
}

// Server is the HTTP API server.
type Server struct {
	router chi.Router
	cfg    *config.Config
	orch   Answerer
	sector SectorSource         // nil disables /api/sector
	sched  *scheduler.Scheduler // nil disables /api/scheduler/status
}

// NewServer creates a configured API server with all routes and middleware.
func NewServer(cfg *config.Config, orch Answerer, sector SectorSource, sched *scheduler.Scheduler) *Server {
	s := &Server{
		cfg:    cfg,
		orch:   orch,
		sector: sector,
		sched:  sched,
	}
	s.router = s.buildRouter()
	return s
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router { return s.router }

// ListenAndServe starts the HTTP server with graceful shutdown on SIGINT
// and SIGTERM.
func (s *Server) ListenAndServe(addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 180 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()
	log.Printf("api: listening on %s", addr)

	<-done
	log.Println("api: shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return httpSrv.Shutdown(ctx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(180 * time.Second))

	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/query", s.handleQuery)
		r.Get("/sector", s.handleSector)
		r.Get("/scheduler/status", s.handleSchedulerStatus)
		r.Get("/ws", s.handleWebSocket)
	})

	return r
}

// ── Handlers ──

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "chipsight",
	})
}

type queryRequest struct {
	Query string `json:"query"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	answer, err := s.orch.Answer(r.Context(), req.Query)
	if err != nil {
		log.Printf("api: query failed: %v", err)
		writeError(w, http.StatusBadGateway, "failed to process query")
		return
	}
	writeJSON(w, http.StatusOK, answer)
}

func (s *Server) handleSector(w http.ResponseWriter, r *http.Request) {
	if s.sector == nil {
		writeError(w, http.StatusNotFound, "sector overview not enabled")
		return
	}
	overview, err := s.sector.Overview(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, "failed to fetch sector overview")
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (s *Server) handleSchedulerStatus(w http.ResponseWriter, r *http.Request) {
	if s.sched == nil {
		writeError(w, http.StatusNotFound, "scheduler not enabled")
		return
	}
	writeJSON(w, http.StatusOK, s.sched.Status())
}

// ── Helpers ──

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("api: encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
