package handler

import (
	"encoding/json"
	"net/http"
	"time"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	startTime time.Time
	version   string
	channels  func() []string
}

// NewHealthHandler creates a health handler. channels reports the
// currently watched channel IDs; nil omits the field.
func NewHealthHandler(version string, channels func() []string) *HealthHandler {
	return &HealthHandler{
		startTime: time.Now(),
		version:   version,
		channels:  channels,
	}
}

// ServeHTTP handles GET /health (also mounted at the root path).
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"status":    "ok",
		"version":   h.version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(h.startTime).String(),
	}
	if h.channels != nil {
		response["channels"] = h.channels()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}
