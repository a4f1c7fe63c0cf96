package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/placementdesk/backend/internal/models"
	"github.com/placementdesk/backend/internal/services"
)

type AccountHandler struct {
	service *services.AccountService
}

func NewAccountHandler(service *services.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

// Routes registers the account endpoints on r.
func (h *AccountHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{accountId}", h.Get)
	r.Put("/{accountId}", h.Update)
	r.Delete("/{accountId}", h.Delete)
}

// List returns every account with its computed balance
// @Summary List accounts
// @Tags Accounts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.AccountView
// @Router /accounts [get]
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.List(r.Context()))
}

// Get returns one account
// @Summary Get account
// @Tags Accounts
// @Produce json
// @Security BearerAuth
// @Param accountId path string true "Account ID"
// @Success 200 {object} models.AccountView
// @Failure 404 {object} services.ErrorResponse
// @Router /accounts/{accountId} [get]
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Get(r.Context(), chi.URLParam(r, "accountId"))
	if err != nil {
		writeError(w, "ACCOUNT", err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Create adds an account
// @Summary Create account
// @Tags Accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.AccountInput true "Account"
// @Success 201 {object} models.Account
// @Failure 400 {object} services.ErrorResponse
// @Router /accounts [post]
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req models.AccountInput
	if !decodeBody(w, r, &req) {
		return
	}
	account, err := h.service.Create(r.Context(), actor, req)
	if err != nil {
		writeError(w, "ACCOUNT", err)
		return
	}
	writeJSON(w, http.StatusCreated, account)
}

// Update edits an account
// @Summary Update account
// @Tags Accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param accountId path string true "Account ID"
// @Param request body models.AccountInput true "Account"
// @Success 200 {object} models.Account
// @Failure 400 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /accounts/{accountId} [put]
func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req models.AccountInput
	if !decodeBody(w, r, &req) {
		return
	}
	account, err := h.service.Update(r.Context(), actor, chi.URLParam(r, "accountId"), req)
	if err != nil {
		writeError(w, "ACCOUNT", err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

// Delete removes an unreferenced, non-system account
// @Summary Delete account
// @Tags Accounts
// @Security BearerAuth
// @Param accountId path string true "Account ID"
// @Success 204
// @Failure 404 {object} services.ErrorResponse
// @Failure 409 {object} services.ErrorResponse
// @Router /accounts/{accountId} [delete]
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), actor, chi.URLParam(r, "accountId")); err != nil {
		writeError(w, "ACCOUNT", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
