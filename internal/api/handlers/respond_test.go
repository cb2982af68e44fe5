package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/isdelr/jobboard-be/internal/apperr"
	"github.com/isdelr/jobboard-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondError_MapsClasses(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", apperr.New(apperr.ErrValidation, "title is required"), http.StatusBadRequest, "title is required"},
		{"credentials", fmt.Errorf("login: %w", apperr.ErrInvalidCredentials), http.StatusBadRequest, "Invalid credentials"},
		{"duplicate", apperr.ErrDuplicateEmail, http.StatusConflict, "Email already used"},
		{"unauthenticated", apperr.ErrUnauthenticated, http.StatusUnauthorized, "Not authenticated"},
		{"forbidden", apperr.New(apperr.ErrForbidden, "You are not allowed to delete this resource"), http.StatusForbidden, "You are not allowed to delete this resource"},
		{"not found", apperr.New(apperr.ErrNotFound, "Job not found"), http.StatusNotFound, "Job not found"},
		{"internal", fmt.Errorf("inserting job: %w", errors.New("database is locked")), http.StatusInternalServerError, internalErrorMessage},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tc.err)

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			var body messageResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.message, body.Message)
		})
	}
}

func TestValidationError_UsesJSONNames(t *testing.T) {
	input := models.JobInput{
		Title:           "Engineer",
		SalaryRange:     "$1",
		JobType:         "Contract",
		Description:     "Ship it",
		Categories:      []string{},
		JobLevel:        models.JobLevelJunior,
		RemoteOrOnsite:  models.WorkOnsite,
		FreelancerCount: 1,
	}
	err := validationError(validate.Struct(input))
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "categories must contain at least 1 item(s)", apperr.PublicMessage(err, ""))

	empty := ""
	err = validationError(validate.Struct(models.JobPatch{Title: &empty}))
	assert.Equal(t, "title must not be empty", apperr.PublicMessage(err, ""))

	assert.NoError(t, validate.Struct(models.JobPatch{}))
}

func TestDecodeJSON_LimitsBodySize(t *testing.T) {
	var payload CredentialsPayload

	huge := `{"email":"a@x.com","password":"` + strings.Repeat("p", maxBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(huge))
	err := decodeJSON(httptest.NewRecorder(), req, &payload)
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "Request body too large", apperr.PublicMessage(err, ""))

	req = httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"a@x.com","password":"secret1"}`))
	require.NoError(t, decodeJSON(httptest.NewRecorder(), req, &payload))
	assert.Equal(t, "a@x.com", payload.Email)
}
