package app

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Acurioustractor/aime-knowledge-hub/internal/config"
	"github.com/Acurioustractor/aime-knowledge-hub/internal/models"
	"github.com/Acurioustractor/aime-knowledge-hub/internal/core/pipeline"
)

// Server exposes the ops API: health, pipeline status, and manual triggers
// for sweeps and single-document reprocessing.
type Server struct {
	httpServer *http.Server
	app        *App
}

// NewServer builds and wires all routes.
func NewServer(cfg *config.Config, a *App) *Server {
	s := &Server{app: a}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Minute))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(api chi.Router) {
		api.Get("/status", s.handleStatus)
		api.Post("/sweep", s.handleSweep)
		api.Post("/documents/{id}/reprocess", s.handleReprocess)
	})

	s.httpServer = &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}
	return s
}

// Start runs the HTTP server until the context is cancelled, then shuts it
// down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("HTTP server listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Println("Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sweeping": s.app.Sweeping(),
	})
}

type statusResponse struct {
	Total           int                   `json:"total"`
	Indexed         int                   `json:"indexed"`
	MissingText     int                   `json:"missing_text"`
	MissingChunks   int                   `json:"missing_chunks"`
	MissingMetadata int                   `json:"missing_metadata"`
	Sweeping        bool                  `json:"sweeping"`
	LastSweep       *pipeline.SweepResult `json:"last_sweep,omitempty"`
}

// handleStatus reports a completion breakdown of the document table. A
// document can count toward several missing buckets at once.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	recs, err := s.app.Records.ListAll(r.Context(), s.app.cfg.DocumentsTable)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}

	resp := statusResponse{
		Total:     len(recs),
		Sweeping:  s.app.Sweeping(),
		LastSweep: s.app.LastSweep(),
	}
	for i := range recs {
		doc := models.DocumentFromRecord(&recs[i])
		if doc.IsComplete() {
			resp.Indexed++
			continue
		}
		if !doc.HasText() {
			resp.MissingText++
		}
		if doc.NeedsChunking() {
			resp.MissingChunks++
		}
		if len(doc.MissingMetadata()) > 0 {
			resp.MissingMetadata++
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleSweep triggers a sweep; 409 when one is already running.
func (s *Server) handleSweep(w http.ResponseWriter, r *http.Request) {
	res, started, err := s.app.TriggerSweep(r.Context())
	if !started {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "sweep already in progress"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleReprocess(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing document id"})
		return
	}
	if err := s.app.Orchestrator.Reprocess(r.Context(), id); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reprocessed", "id": id})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}
