package handlers

import (
	"net/http"
	"strconv"

	"github.com/isdelr/jobboard-be/internal/apperr"
	"github.com/isdelr/jobboard-be/internal/auth"
	"github.com/isdelr/jobboard-be/internal/services"
)

// DefaultEventLimit applies when the request carries no usable limit.
const DefaultEventLimit = 20

// EventHandler handles HTTP requests related to activity events.
type EventHandler struct {
	service services.EventServiceProvider
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(service services.EventServiceProvider) *EventHandler {
	return &EventHandler{service: service}
}

// GetRecent returns the caller's most recent activity.
func (h *EventHandler) GetRecent(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	if identity == nil {
		respondError(w, r, apperr.ErrUnauthenticated)
		return
	}

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = DefaultEventLimit
	}
	if limit > services.MaxEventLimit {
		limit = services.MaxEventLimit
	}

	events, err := h.service.GetRecentEvents(r.Context(), identity.SubjectID, limit)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"events": events})
}
