package tracker

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// corsError writes an error response with CORS headers set
func corsError(w http.ResponseWriter, message string, code int) {
	setCORSHeaders(w)
	http.Error(w, message, code)
}

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleIndex serves the HTML dashboard
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

// handleListBills returns the bills from the latest snapshot
func (s *Server) handleListBills(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.service.Latest()
	if err != nil {
		slog.Error("Error loading snapshot", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, snapshot.Bills)
}

// handleSummary returns the summary from the latest snapshot
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.service.Latest()
	if err != nil {
		slog.Error("Error loading snapshot", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, snapshot.Summary)
}

// handleSnapshot returns the full latest snapshot
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.service.Latest()
	if err != nil {
		slog.Error("Error loading snapshot", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, snapshot)
}

// handleRefresh forces a poll cycle outside the regular interval
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.service.Refresh(r.Context())
	if err != nil {
		slog.Error("Error refreshing bills", "error", err)
		corsError(w, "Refresh failed", http.StatusBadGateway)
		return
	}
	writeJSON(w, snapshot)
}

// handleHealth reports process liveness
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}
