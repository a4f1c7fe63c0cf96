package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"
	mW "github.com/placementdesk/backend/internal/middleware"
	"github.com/placementdesk/backend/internal/services"
)

const maxBodyBytes = 1_048_576

// decodeBody reads a single JSON object into dst. It writes the error response
// itself and reports whether the handler may continue.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		services.SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return false
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		services.SendErrorResponse(w, "Request body must only contain a single JSON object", http.StatusBadRequest, nil)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[HTTP] Failed to encode response: %v", err)
	}
}

func requireActor(w http.ResponseWriter, r *http.Request) (services.Actor, bool) {
	actor, ok := mW.ActorFrom(r.Context())
	if !ok || actor.ID == "" {
		services.SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return services.Actor{}, false
	}
	return actor, true
}

// writeError maps a service error onto an HTTP status.
func writeError(w http.ResponseWriter, tag string, err error) {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrs):
		services.SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
	case errors.Is(err, services.ErrInvalidInput):
		services.SendErrorResponse(w, err.Error(), http.StatusBadRequest, nil)
	case errors.Is(err, services.ErrNotFound):
		services.SendErrorResponse(w, err.Error(), http.StatusNotFound, nil)
	case errors.Is(err, services.ErrEntityReferenced),
		errors.Is(err, services.ErrSystemAccount),
		errors.Is(err, services.ErrTransactionLocked),
		errors.Is(err, services.ErrEmailTaken):
		services.SendErrorResponse(w, err.Error(), http.StatusConflict, nil)
	case errors.Is(err, services.ErrForbidden):
		services.SendErrorResponse(w, "Forbidden", http.StatusForbidden, nil)
	case errors.Is(err, services.ErrInvalidCredential):
		services.SendErrorResponse(w, "Invalid credentials", http.StatusUnauthorized, nil)
	case errors.Is(err, services.ErrTooManyAttempts):
		services.SendErrorResponse(w, err.Error(), http.StatusTooManyRequests, nil)
	default:
		log.Printf("[%s] Internal error: %v", tag, err)
		services.SendErrorResponse(w, "Internal server error", http.StatusInternalServerError, nil)
	}
}

// activeRequest toggles the active flag of candidates, staff and obligations.
type activeRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

var requestValidator = services.NewValidationHelper()

// decodeActive reads an activeRequest and returns the requested flag.
func decodeActive(w http.ResponseWriter, r *http.Request) (bool, bool) {
	var req activeRequest
	if !decodeBody(w, r, &req) {
		return false, false
	}
	if err := requestValidator.ValidateStruct(&req); err != nil {
		services.SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return false, false
	}
	return *req.IsActive, true
}
