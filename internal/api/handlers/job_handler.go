package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/jobboard-be/internal/apperr"
	"github.com/isdelr/jobboard-be/internal/auth"
	"github.com/isdelr/jobboard-be/internal/models"
	"github.com/isdelr/jobboard-be/internal/services"
	"github.com/rs/zerolog/hlog"
)

// JobHandler handles HTTP requests for job postings. Every route sits behind
// the auth gate.
type JobHandler struct {
	service services.JobServiceProvider
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(service services.JobServiceProvider) *JobHandler {
	return &JobHandler{service: service}
}

// Create posts a new job owned by the caller.
func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input models.JobInput
	if err := decodeJSON(w, r, &input); err != nil {
		respondError(w, r, err)
		return
	}

	job, err := h.service.CreateJob(r.Context(), auth.IdentityFromContext(r.Context()), input)
	if err != nil {
		respondError(w, r, err)
		return
	}

	hlog.FromRequest(r).Info().Str("job_id", job.ID).Str("posted_by", job.PostedBy).Msg("Job posted")
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Job posted successfully",
		"job":     job,
	})
}

// GetAll lists every posting.
func (h *JobHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.service.ListJobs(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"jobs": jobs})
}

// GetMine lists the caller's own postings.
func (h *JobHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	if identity == nil {
		respondError(w, r, apperr.ErrUnauthenticated)
		return
	}

	jobs, err := h.service.ListJobsByOwner(r.Context(), identity.SubjectID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"jobs": jobs})
}

// Get returns a single posting.
func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	job, err := h.service.GetJob(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"job": job})
}

// Update applies a partial update to a posting the caller owns. Existence
// and ownership are settled before the body is read.
func (h *JobHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	identity := auth.IdentityFromContext(r.Context())

	current, err := h.service.GetJob(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := auth.Authorize(identity, current.PostedBy, auth.ActionUpdate); err != nil {
		respondError(w, r, err)
		return
	}

	var patch models.JobPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		respondError(w, r, err)
		return
	}

	job, err := h.service.UpdateJob(r.Context(), identity, id, patch)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Job updated successfully",
		"job":     job,
	})
}

// Delete removes a posting the caller owns.
func (h *JobHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.DeleteJob(r.Context(), auth.IdentityFromContext(r.Context()), id); err != nil {
		respondError(w, r, err)
		return
	}

	hlog.FromRequest(r).Info().Str("job_id", id).Msg("Job deleted")
	respondMessage(w, http.StatusOK, "Job deleted successfully")
}
