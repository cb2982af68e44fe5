package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/isdelr/jobboard-be/internal/apperr"
	"github.com/rs/zerolog/hlog"
)

const internalErrorMessage = "Something went wrong"

// maxBodyBytes caps every JSON request body.
const maxBodyBytes = 1 << 20

// validate reports field errors by their JSON names.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// messageResponse is the body of every error and of plain confirmations.
type messageResponse struct {
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		json.NewEncoder(w).Encode(body)
	}
}

func respondMessage(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, messageResponse{Message: msg})
}

// respondError maps an error class to its status. Anything unclassified is
// logged and answered with a generic 500.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		status   int
		fallback string
	)
	switch {
	case errors.Is(err, apperr.ErrValidation):
		status, fallback = http.StatusBadRequest, "Invalid request"
	case errors.Is(err, apperr.ErrDuplicateEmail):
		status, fallback = http.StatusConflict, "Email already used"
	case errors.Is(err, apperr.ErrUnauthenticated):
		status, fallback = http.StatusUnauthorized, "Not authenticated"
	case errors.Is(err, apperr.ErrForbidden):
		status, fallback = http.StatusForbidden, "Forbidden"
	case errors.Is(err, apperr.ErrNotFound):
		status, fallback = http.StatusNotFound, "Not found"
	default:
		hlog.FromRequest(r).Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		respondMessage(w, http.StatusInternalServerError, internalErrorMessage)
		return
	}
	respondMessage(w, status, apperr.PublicMessage(err, fallback))
}

// decodeJSON reads a JSON body of at most maxBodyBytes into dst and validates it.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperr.New(apperr.ErrValidation, "Request body too large")
		}
		return apperr.New(apperr.ErrValidation, "Invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		return validationError(err)
	}
	return nil
}

func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apperr.New(apperr.ErrValidation, "Invalid request")
	}
	fe := fieldErrs[0]
	field := fe.Field()
	var msg string
	switch fe.Tag() {
	case "required":
		msg = field + " is required"
	case "oneof":
		msg = fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min":
		if fe.Kind() == reflect.Slice {
			msg = fmt.Sprintf("%s must contain at least %s item(s)", field, fe.Param())
		} else if fe.Kind() == reflect.String {
			msg = field + " must not be empty"
		} else {
			msg = fmt.Sprintf("%s must be at least %s", field, fe.Param())
		}
	default:
		msg = field + " is invalid"
	}
	return apperr.New(apperr.ErrValidation, msg)
}
