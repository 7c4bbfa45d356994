package http

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"time"
)

var errNotFound = fs.ErrNotExist

// handleHealth performs basic liveness check and reports traffic counters.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	total, failures := s.tracer.Counts()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
		"uptime":         time.Since(s.started).Round(time.Second).String(),
		"requests":       total,
		"failures":       failures,
		"chart_clients":  s.limiter.ActiveClients(),
		"chart_rejected": s.limiter.Rejected(),
	})
}

// handleReady reports whether the store answers within a short deadline.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	status, code := "ready", http.StatusOK
	checks := map[string]string{"store": "ok"}
	if s.ready != nil {
		if err := s.ready(ctx); err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				checks["store"] = "timeout"
			} else {
				checks["store"] = "failed: " + err.Error()
			}
			status, code = "not_ready", http.StatusServiceUnavailable
		}
	}

	writeJSON(w, code, map[string]any{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    checks,
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
