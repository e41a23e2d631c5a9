package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/sessions"

	"github.com/rfconstrucoes/obra/internal/app"
	"github.com/rfconstrucoes/obra/internal/copywriter"
	"github.com/rfconstrucoes/obra/internal/types"
)

// maxUploadBytes caps multipart request bodies (cover + gallery files).
const maxUploadBytes = 32 << 20

// Handler implements the API handlers
type Handler struct {
	state      *app.State
	writer     copywriter.Generator
	sessions   sessions.Store
	sessionTTL time.Duration
	version    string
}

// NewHandler creates a new Handler over the application state.
func NewHandler(state *app.State, writer copywriter.Generator, sessionStore sessions.Store, sessionTTL time.Duration, version string) *Handler {
	return &Handler{
		state:      state,
		writer:     writer,
		sessions:   sessionStore,
		sessionTTL: sessionTTL,
		version:    version,
	}
}

// Health returns the health status
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	stats, err := h.state.Stats(r.Context())
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, types.HealthResponse{
		Status:          "healthy",
		Version:         h.version,
		ProjectCount:    stats.ProjectCount,
		ReviewCount:     stats.ReviewCount,
		PendingRequests: stats.PendingRequests,
	})
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
