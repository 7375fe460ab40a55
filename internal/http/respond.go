package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Glivan2903/minhagrana/internal/access"
	"github.com/Glivan2903/minhagrana/internal/core"
	"github.com/Glivan2903/minhagrana/internal/log"
	"github.com/Glivan2903/minhagrana/internal/services"
	"github.com/Glivan2903/minhagrana/internal/storage"
)

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response failed", "error", err)
	}
}

// respondError maps domain errors onto HTTP statuses. Expected, recoverable
// conditions get stable codes the frontend switches on.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, access.ErrFreeTierLimit):
		respondJSON(w, http.StatusForbidden, errorBody{Error: err.Error(), Code: "free_tier_limit"})
	case errors.Is(err, access.ErrAccessExpired):
		respondJSON(w, http.StatusForbidden, errorBody{Error: err.Error(), Code: "access_expired"})
	case errors.Is(err, storage.ErrInvalidCredentials):
		respondJSON(w, http.StatusUnauthorized, errorBody{Error: "invalid credentials", Code: "unauthorized"})
	case errors.Is(err, storage.ErrNotFound):
		respondJSON(w, http.StatusNotFound, errorBody{Error: "not found", Code: "not_found"})
	case errors.Is(err, services.ErrCategoryInUse):
		respondJSON(w, http.StatusConflict, errorBody{Error: err.Error(), Code: "category_in_use"})
	case errors.Is(err, services.ErrTermsNotAccepted):
		respondJSON(w, http.StatusUnprocessableEntity, errorBody{Error: err.Error(), Code: "terms_not_accepted"})
	case isValidationError(err):
		respondJSON(w, http.StatusUnprocessableEntity, errorBody{Error: err.Error(), Code: "validation"})
	default:
		log.FromContext(r.Context()).ErrorContext(r.Context(), "request failed",
			log.FieldMethod, r.Method, log.FieldPath, r.URL.Path, log.FieldError, err.Error())
		respondJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		core.ErrInvalidDate,
		core.ErrInvalidMonth,
		core.ErrInvalidAmount,
		core.ErrInvalidType,
		core.ErrInvalidStatus,
		core.ErrInvalidPeriod,
		core.ErrEmptyDescription,
		core.ErrPeriodWithoutFlag,
		core.ErrMissingPeriod,
		core.ErrInstallmentFields,
		core.ErrMissingInstallment,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	respondJSON(w, http.StatusBadRequest, errorBody{Error: msg, Code: "bad_request"})
}
