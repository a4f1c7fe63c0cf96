package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/placementdesk/backend/internal/models"
	"github.com/placementdesk/backend/internal/services"
)

type CandidateHandler struct {
	service *services.CandidateService
}

func NewCandidateHandler(service *services.CandidateService) *CandidateHandler {
	return &CandidateHandler{service: service}
}

func (h *CandidateHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{candidateId}", h.Get)
	r.Put("/{candidateId}", h.Update)
	r.Put("/{candidateId}/status", h.SetActive)
	r.Delete("/{candidateId}", h.Delete)
}

// List returns candidates with their fee position
// @Summary List candidates
// @Tags Candidates
// @Produce json
// @Security BearerAuth
// @Param all query bool false "Include inactive candidates"
// @Success 200 {array} models.CandidateSummary
// @Router /candidates [get]
func (h *CandidateHandler) List(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("all") == "true"
	writeJSON(w, http.StatusOK, h.service.List(r.Context(), includeInactive))
}

// Get returns one candidate with agreed, paid and due amounts
// @Summary Get candidate
// @Tags Candidates
// @Produce json
// @Security BearerAuth
// @Param candidateId path string true "Candidate ID"
// @Success 200 {object} models.CandidateSummary
// @Failure 404 {object} services.ErrorResponse
// @Router /candidates/{candidateId} [get]
func (h *CandidateHandler) Get(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Get(r.Context(), chi.URLParam(r, "candidateId"))
	if err != nil {
		writeError(w, "CANDIDATE", err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// Create enrols a candidate
// @Summary Create candidate
// @Tags Candidates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CandidateInput true "Candidate"
// @Success 201 {object} models.Candidate
// @Failure 400 {object} services.ErrorResponse
// @Router /candidates [post]
func (h *CandidateHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req models.CandidateInput
	if !decodeBody(w, r, &req) {
		return
	}
	candidate, err := h.service.Create(r.Context(), actor, req)
	if err != nil {
		writeError(w, "CANDIDATE", err)
		return
	}
	writeJSON(w, http.StatusCreated, candidate)
}

// Update edits a candidate
// @Summary Update candidate
// @Tags Candidates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param candidateId path string true "Candidate ID"
// @Param request body models.CandidateInput true "Candidate"
// @Success 200 {object} models.Candidate
// @Failure 400 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /candidates/{candidateId} [put]
func (h *CandidateHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req models.CandidateInput
	if !decodeBody(w, r, &req) {
		return
	}
	candidate, err := h.service.Update(r.Context(), actor, chi.URLParam(r, "candidateId"), req)
	if err != nil {
		writeError(w, "CANDIDATE", err)
		return
	}
	writeJSON(w, http.StatusOK, candidate)
}

// SetActive activates or deactivates a candidate
// @Summary Set candidate status
// @Tags Candidates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param candidateId path string true "Candidate ID"
// @Param request body object{isActive=bool} true "Status"
// @Success 200 {object} models.Candidate
// @Failure 404 {object} services.ErrorResponse
// @Router /candidates/{candidateId}/status [put]
func (h *CandidateHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	active, ok := decodeActive(w, r)
	if !ok {
		return
	}
	candidate, err := h.service.SetActive(r.Context(), actor, chi.URLParam(r, "candidateId"), active)
	if err != nil {
		writeError(w, "CANDIDATE", err)
		return
	}
	writeJSON(w, http.StatusOK, candidate)
}

// Delete removes a candidate without financial history
// @Summary Delete candidate
// @Tags Candidates
// @Security BearerAuth
// @Param candidateId path string true "Candidate ID"
// @Success 204
// @Failure 404 {object} services.ErrorResponse
// @Failure 409 {object} services.ErrorResponse
// @Router /candidates/{candidateId} [delete]
func (h *CandidateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), actor, chi.URLParam(r, "candidateId")); err != nil {
		writeError(w, "CANDIDATE", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
