// Package server exposes run history and the latest report over HTTP.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/oddscout/oddscout/internal/pipeline"
	"github.com/oddscout/oddscout/internal/snapshot"
	"github.com/oddscout/oddscout/internal/store"
	"github.com/oddscout/oddscout/pkg/ranking"
)

// Server provides the HTTP API.
type Server struct {
	store     store.Store
	snapshots *snapshot.Store
	pipe      *pipeline.Pipeline
	port      int
}

// New creates a new HTTP server. store and pipe may be nil; the
// corresponding endpoints report unavailable.
func New(s store.Store, snapshots *snapshot.Store, pipe *pipeline.Pipeline, port int) *Server {
	if port == 0 {
		port = 8080
	}
	return &Server{
		store:     s,
		snapshots: snapshots,
		pipe:      pipe,
		port:      port,
	}
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/v1/report", s.handleReport)
	mux.HandleFunc("/api/v1/runs", s.handleRuns)
	mux.HandleFunc("/api/v1/picks", s.handlePicks)
	mux.HandleFunc("/api/v1/scan", s.handleScan)

	addr := fmt.Sprintf(":%d", s.port)
	fmt.Printf("oddscout server listening on %s\n", addr)
	return http.ListenAndServe(addr, mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReport serves the latest ranked report from the snapshot store.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	if s.snapshots == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "snapshots disabled"})
		return
	}

	var report ranking.ReportSet
	if err := s.snapshots.Load("report", &report); err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no report available yet"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":       report,
		"game_count": len(report.Games),
		"prop_count": len(report.Props),
		"generated":  report.GeneratedAt,
	})
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	if s.store == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "history disabled"})
		return
	}

	runs, err := s.store.ListRuns(r.Context(), 50)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":  runs,
		"count": len(runs),
	})
}

func (s *Server) handlePicks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	if s.store == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "history disabled"})
		return
	}

	runID := r.URL.Query().Get("run")
	picks, err := s.store.ListPicks(r.Context(), runID, 200)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":  picks,
		"count": len(picks),
	})
}

// handleScan triggers a scan on demand.
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	if s.pipe == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "scanning disabled"})
		return
	}

	result := s.pipe.Run(r.Context(), pipeline.DefaultOptions())
	writeJSON(w, http.StatusOK, map[string]any{
		"run_id":     result.RunID,
		"game_picks": len(result.Report.Games),
		"prop_picks": len(result.Report.Props),
		"duration":   result.Duration.String(),
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
