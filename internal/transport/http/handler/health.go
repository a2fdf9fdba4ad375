package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Health handles liveness probes.
type Health struct{}

func NewHealth() *Health { return &Health{} }

func (h *Health) Ping(w http.ResponseWriter, r *http.Request) {
	if chi.URLParam(r, "action") != "ping" {
		writeError(w, http.StatusBadRequest, "unknown action")
		return
	}
	writeJSON(w, http.StatusOK, Envelope{Message: "pong", Success: true})
}
