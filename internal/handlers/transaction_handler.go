package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/placementdesk/backend/internal/models"
	"github.com/placementdesk/backend/internal/services"
)

type TransactionHandler struct {
	service  *services.TransactionService
	receipts *services.ReceiptService
}

func NewTransactionHandler(service *services.TransactionService, receipts *services.ReceiptService) *TransactionHandler {
	return &TransactionHandler{service: service, receipts: receipts}
}

func (h *TransactionHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{txId}", h.Get)
	r.Put("/{txId}", h.Update)
	r.Delete("/{txId}", h.Delete)
	r.Post("/{txId}/lock", h.Lock)
	r.Post("/{txId}/unlock", h.Unlock)
	r.Post("/{txId}/receipt", h.IssueReceipt)
}

// List returns transactions newest first
// @Summary List transactions
// @Tags Transactions
// @Produce json
// @Security BearerAuth
// @Param entityId query string false "Participant ID"
// @Param entityType query string false "Participant kind" Enums(Account, Candidate, Staff)
// @Param type query string false "Transaction type" Enums(Income, Expense, Transfer, Refund)
// @Param from query string false "First day (YYYY-MM-DD)"
// @Param to query string false "Last day (YYYY-MM-DD)"
// @Success 200 {array} models.Transaction
// @Router /transactions [get]
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.TransactionFilter{
		EntityID:   q.Get("entityId"),
		EntityType: models.EntityKind(q.Get("entityType")),
		Type:       models.TransactionType(q.Get("type")),
		From:       q.Get("from"),
		To:         q.Get("to"),
	}
	if filter.EntityID != "" && !filter.EntityType.Valid() {
		services.SendErrorResponse(w, "entityType is required with entityId", http.StatusBadRequest, nil)
		return
	}
	writeJSON(w, http.StatusOK, h.service.List(r.Context(), filter))
}

// @Summary Get transaction
// @Tags Transactions
// @Produce json
// @Security BearerAuth
// @Param txId path string true "Transaction ID"
// @Success 200 {object} models.Transaction
// @Failure 404 {object} services.ErrorResponse
// @Router /transactions/{txId} [get]
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	t, err := h.service.Get(r.Context(), chi.URLParam(r, "txId"))
	if err != nil {
		writeError(w, "TXN", err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// Create records a transaction
// @Summary Create transaction
// @Tags Transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.TransactionInput true "Transaction"
// @Success 201 {object} models.Transaction
// @Failure 400 {object} services.ErrorResponse
// @Router /transactions [post]
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req models.TransactionInput
	if !decodeBody(w, r, &req) {
		return
	}
	t, err := h.service.Create(r.Context(), actor, req)
	if err != nil {
		writeError(w, "TXN", err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// Update edits a transaction. Locked transactions require an admin.
// @Summary Update transaction
// @Tags Transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param txId path string true "Transaction ID"
// @Param request body models.TransactionInput true "Transaction"
// @Success 200 {object} models.Transaction
// @Failure 400 {object} services.ErrorResponse
// @Failure 409 {object} services.ErrorResponse
// @Router /transactions/{txId} [put]
func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req models.TransactionInput
	if !decodeBody(w, r, &req) {
		return
	}
	t, err := h.service.Update(r.Context(), actor, chi.URLParam(r, "txId"), req)
	if err != nil {
		writeError(w, "TXN", err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// @Summary Delete transaction
// @Tags Transactions
// @Security BearerAuth
// @Param txId path string true "Transaction ID"
// @Success 204
// @Failure 404 {object} services.ErrorResponse
// @Failure 409 {object} services.ErrorResponse
// @Router /transactions/{txId} [delete]
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), actor, chi.URLParam(r, "txId")); err != nil {
		writeError(w, "TXN", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// @Summary Lock transaction
// @Tags Transactions
// @Produce json
// @Security BearerAuth
// @Param txId path string true "Transaction ID"
// @Success 200 {object} models.Transaction
// @Router /transactions/{txId}/lock [post]
func (h *TransactionHandler) Lock(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	t, err := h.service.Lock(r.Context(), actor, chi.URLParam(r, "txId"))
	if err != nil {
		writeError(w, "TXN", err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// @Summary Unlock transaction
// @Tags Transactions
// @Produce json
// @Security BearerAuth
// @Param txId path string true "Transaction ID"
// @Success 200 {object} models.Transaction
// @Failure 403 {object} services.ErrorResponse
// @Router /transactions/{txId}/unlock [post]
func (h *TransactionHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	t, err := h.service.Unlock(r.Context(), actor, chi.URLParam(r, "txId"))
	if err != nil {
		writeError(w, "TXN", err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// IssueReceipt generates a QR receipt for a transaction
// @Summary Issue receipt
// @Tags Transactions
// @Produce json
// @Security BearerAuth
// @Param txId path string true "Transaction ID"
// @Success 200 {object} services.IssuedReceipt
// @Failure 404 {object} services.ErrorResponse
// @Router /transactions/{txId}/receipt [post]
func (h *TransactionHandler) IssueReceipt(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.receipts.Issue(r.Context(), chi.URLParam(r, "txId"))
	if err != nil {
		writeError(w, "RECEIPT", err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}
