package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/placementdesk/backend/internal/models"
	"github.com/placementdesk/backend/internal/services"
)

type ObligationHandler struct {
	service *services.ObligationService
}

func NewObligationHandler(service *services.ObligationService) *ObligationHandler {
	return &ObligationHandler{service: service}
}

func (h *ObligationHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/arrears", h.AllArrears)
	r.Get("/{obligationId}", h.Get)
	r.Put("/{obligationId}", h.Update)
	r.Put("/{obligationId}/status", h.SetActive)
	r.Get("/{obligationId}/arrears", h.Arrears)
	r.Delete("/{obligationId}", h.Delete)
}

// @Summary List recurring obligations
// @Tags Obligations
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Obligation
// @Router /obligations [get]
func (h *ObligationHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.List(r.Context()))
}

// @Summary Get recurring obligation
// @Tags Obligations
// @Produce json
// @Security BearerAuth
// @Param obligationId path string true "Obligation ID"
// @Success 200 {object} models.Obligation
// @Failure 404 {object} services.ErrorResponse
// @Router /obligations/{obligationId} [get]
func (h *ObligationHandler) Get(w http.ResponseWriter, r *http.Request) {
	obligation, err := h.service.Get(r.Context(), chi.URLParam(r, "obligationId"))
	if err != nil {
		writeError(w, "OBLIGATION", err)
		return
	}
	writeJSON(w, http.StatusOK, obligation)
}

// @Summary Create recurring obligation
// @Tags Obligations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.ObligationInput true "Obligation"
// @Success 201 {object} models.Obligation
// @Failure 400 {object} services.ErrorResponse
// @Router /obligations [post]
func (h *ObligationHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req models.ObligationInput
	if !decodeBody(w, r, &req) {
		return
	}
	obligation, err := h.service.Create(r.Context(), actor, req)
	if err != nil {
		writeError(w, "OBLIGATION", err)
		return
	}
	writeJSON(w, http.StatusCreated, obligation)
}

// @Summary Update recurring obligation
// @Tags Obligations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param obligationId path string true "Obligation ID"
// @Param request body models.ObligationInput true "Obligation"
// @Success 200 {object} models.Obligation
// @Failure 400 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /obligations/{obligationId} [put]
func (h *ObligationHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req models.ObligationInput
	if !decodeBody(w, r, &req) {
		return
	}
	obligation, err := h.service.Update(r.Context(), actor, chi.URLParam(r, "obligationId"), req)
	if err != nil {
		writeError(w, "OBLIGATION", err)
		return
	}
	writeJSON(w, http.StatusOK, obligation)
}

// @Summary Set obligation status
// @Tags Obligations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param obligationId path string true "Obligation ID"
// @Param request body object{isActive=bool} true "Status"
// @Success 200 {object} models.Obligation
// @Router /obligations/{obligationId}/status [put]
func (h *ObligationHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	active, ok := decodeActive(w, r)
	if !ok {
		return
	}
	obligation, err := h.service.SetActive(r.Context(), actor, chi.URLParam(r, "obligationId"), active)
	if err != nil {
		writeError(w, "OBLIGATION", err)
		return
	}
	writeJSON(w, http.StatusOK, obligation)
}

// Arrears replays one obligation against the transaction log
// @Summary Obligation arrears
// @Tags Obligations
// @Produce json
// @Security BearerAuth
// @Param obligationId path string true "Obligation ID"
// @Success 200 {object} models.Arrears
// @Failure 404 {object} services.ErrorResponse
// @Router /obligations/{obligationId}/arrears [get]
func (h *ObligationHandler) Arrears(w http.ResponseWriter, r *http.Request) {
	arrears, err := h.service.Arrears(r.Context(), chi.URLParam(r, "obligationId"))
	if err != nil {
		writeError(w, "OBLIGATION", err)
		return
	}
	writeJSON(w, http.StatusOK, arrears)
}

// @Summary Arrears of every active obligation
// @Tags Obligations
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Arrears
// @Router /obligations/arrears [get]
func (h *ObligationHandler) AllArrears(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.AllArrears(r.Context()))
}

// @Summary Delete recurring obligation
// @Tags Obligations
// @Security BearerAuth
// @Param obligationId path string true "Obligation ID"
// @Success 204
// @Failure 404 {object} services.ErrorResponse
// @Router /obligations/{obligationId} [delete]
func (h *ObligationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), actor, chi.URLParam(r, "obligationId")); err != nil {
		writeError(w, "OBLIGATION", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
