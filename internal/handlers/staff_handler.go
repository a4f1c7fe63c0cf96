package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/placementdesk/backend/internal/models"
	"github.com/placementdesk/backend/internal/services"
)

type StaffHandler struct {
	service *services.StaffService
}

func NewStaffHandler(service *services.StaffService) *StaffHandler {
	return &StaffHandler{service: service}
}

func (h *StaffHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{staffId}", h.Get)
	r.Put("/{staffId}", h.Update)
	r.Put("/{staffId}/status", h.SetActive)
	r.Delete("/{staffId}", h.Delete)
}

// List returns staff users without credentials
// @Summary List staff
// @Tags Staff
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Staff
// @Router /staff [get]
func (h *StaffHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.List(r.Context()))
}

// @Summary Get staff member
// @Tags Staff
// @Produce json
// @Security BearerAuth
// @Param staffId path string true "Staff ID"
// @Success 200 {object} models.Staff
// @Failure 404 {object} services.ErrorResponse
// @Router /staff/{staffId} [get]
func (h *StaffHandler) Get(w http.ResponseWriter, r *http.Request) {
	member, err := h.service.Get(r.Context(), chi.URLParam(r, "staffId"))
	if err != nil {
		writeError(w, "STAFF", err)
		return
	}
	writeJSON(w, http.StatusOK, member)
}

// Create registers a staff user. Admin only.
// @Summary Create staff member
// @Tags Staff
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.StaffInput true "Staff member"
// @Success 201 {object} models.Staff
// @Failure 400 {object} services.ErrorResponse
// @Failure 403 {object} services.ErrorResponse
// @Failure 409 {object} services.ErrorResponse
// @Router /staff [post]
func (h *StaffHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req models.StaffInput
	if !decodeBody(w, r, &req) {
		return
	}
	member, err := h.service.Create(r.Context(), actor, req)
	if err != nil {
		writeError(w, "STAFF", err)
		return
	}
	writeJSON(w, http.StatusCreated, member)
}

// Update edits a staff user. Non-admins may only edit their own profile.
// @Summary Update staff member
// @Tags Staff
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param staffId path string true "Staff ID"
// @Param request body models.StaffInput true "Staff member"
// @Success 200 {object} models.Staff
// @Failure 400 {object} services.ErrorResponse
// @Failure 403 {object} services.ErrorResponse
// @Router /staff/{staffId} [put]
func (h *StaffHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req models.StaffInput
	if !decodeBody(w, r, &req) {
		return
	}
	member, err := h.service.Update(r.Context(), actor, chi.URLParam(r, "staffId"), req)
	if err != nil {
		writeError(w, "STAFF", err)
		return
	}
	writeJSON(w, http.StatusOK, member)
}

// @Summary Set staff status
// @Tags Staff
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param staffId path string true "Staff ID"
// @Param request body object{isActive=bool} true "Status"
// @Success 200 {object} models.Staff
// @Failure 403 {object} services.ErrorResponse
// @Router /staff/{staffId}/status [put]
func (h *StaffHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	active, ok := decodeActive(w, r)
	if !ok {
		return
	}
	member, err := h.service.SetActive(r.Context(), actor, chi.URLParam(r, "staffId"), active)
	if err != nil {
		writeError(w, "STAFF", err)
		return
	}
	writeJSON(w, http.StatusOK, member)
}

// @Summary Delete staff member
// @Tags Staff
// @Security BearerAuth
// @Param staffId path string true "Staff ID"
// @Success 204
// @Failure 403 {object} services.ErrorResponse
// @Failure 409 {object} services.ErrorResponse
// @Router /staff/{staffId} [delete]
func (h *StaffHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), actor, chi.URLParam(r, "staffId")); err != nil {
		writeError(w, "STAFF", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
