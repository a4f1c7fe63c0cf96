package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/placementdesk/backend/internal/services"
)

type ReceiptHandler struct {
	service *services.ReceiptService
}

func NewReceiptHandler(service *services.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{service: service}
}

// Verify resolves a scanned receipt code
// @Summary Verify receipt
// @Description Resolve a receipt code printed on a transaction receipt
// @Tags Receipts
// @Produce json
// @Param code path string true "Receipt code"
// @Success 200 {object} services.Receipt
// @Failure 404 {object} services.ErrorResponse
// @Router /receipts/{code} [get]
func (h *ReceiptHandler) Verify(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.service.Verify(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, "RECEIPT", err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}
