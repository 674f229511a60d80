package http

import (
	"context"
	"net/http"
	"time"

	"github.com/noventicred/constrular/internal/settings"
)

type SettingsHandler struct {
	settings *settings.Service
	timeout  time.Duration
}

func NewSettingsHandler(svc *settings.Service, timeout time.Duration) *SettingsHandler {
	return &SettingsHandler{
		settings: svc,
		timeout:  timeout,
	}
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	s, err := h.settings.Get(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load settings")
		return
	}

	respondJSON(w, http.StatusOK, s)
}
