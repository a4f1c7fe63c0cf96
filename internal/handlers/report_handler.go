package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/placementdesk/backend/internal/models"
	"github.com/placementdesk/backend/internal/services"
)

type ReportHandler struct {
	service *services.ReportService
}

func NewReportHandler(service *services.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

func (h *ReportHandler) Routes(r chi.Router) {
	r.Get("/balance/{entityType}/{entityId}", h.Balance)
	r.Get("/statement/{entityType}/{entityId}", h.Statement)
	r.Get("/dashboard", h.Dashboard)
	r.Get("/profit-and-loss", h.ProfitAndLoss)
	r.Get("/balance-sheet", h.BalanceSheet)
	r.Get("/receivables", h.Receivables)
	r.Get("/payroll", h.Payroll)
}

func entityParams(w http.ResponseWriter, r *http.Request) (string, models.EntityKind, bool) {
	kind := models.EntityKind(chi.URLParam(r, "entityType"))
	if !kind.Valid() {
		services.SendErrorResponse(w, "entityType must be Account, Candidate or Staff", http.StatusBadRequest, nil)
		return "", "", false
	}
	return chi.URLParam(r, "entityId"), kind, true
}

// Balance returns the computed balance of one participant
// @Summary Participant balance
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param entityType path string true "Participant kind" Enums(Account, Candidate, Staff)
// @Param entityId path string true "Participant ID"
// @Success 200 {object} services.BalanceReport
// @Failure 404 {object} services.ErrorResponse
// @Router /reports/balance/{entityType}/{entityId} [get]
func (h *ReportHandler) Balance(w http.ResponseWriter, r *http.Request) {
	id, kind, ok := entityParams(w, r)
	if !ok {
		return
	}
	report, err := h.service.Balance(r.Context(), id, kind)
	if err != nil {
		writeError(w, "REPORT", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Statement returns the dated lines and running balance of one participant
// @Summary Participant statement
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param entityType path string true "Participant kind" Enums(Account, Candidate, Staff)
// @Param entityId path string true "Participant ID"
// @Success 200 {object} services.StatementReport
// @Failure 404 {object} services.ErrorResponse
// @Router /reports/statement/{entityType}/{entityId} [get]
func (h *ReportHandler) Statement(w http.ResponseWriter, r *http.Request) {
	id, kind, ok := entityParams(w, r)
	if !ok {
		return
	}
	report, err := h.service.Statement(r.Context(), id, kind)
	if err != nil {
		writeError(w, "REPORT", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// @Summary Dashboard figures
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ledger.Dashboard
// @Router /reports/dashboard [get]
func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Dashboard(r.Context()))
}

// @Summary Profit and loss
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param from query string false "First day (YYYY-MM-DD)"
// @Param to query string false "Last day (YYYY-MM-DD)"
// @Success 200 {object} ledger.ProfitAndLoss
// @Failure 400 {object} services.ErrorResponse
// @Router /reports/profit-and-loss [get]
func (h *ReportHandler) ProfitAndLoss(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	report, err := h.service.ProfitAndLoss(r.Context(), q.Get("from"), q.Get("to"))
	if err != nil {
		writeError(w, "REPORT", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// @Summary Balance sheet
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ledger.BalanceSheet
// @Router /reports/balance-sheet [get]
func (h *ReportHandler) BalanceSheet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.BalanceSheet(r.Context()))
}

// @Summary Candidate receivables
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} services.Receivables
// @Router /reports/receivables [get]
func (h *ReportHandler) Receivables(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Receivables(r.Context()))
}

// @Summary Salary arrears
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Arrears
// @Router /reports/payroll [get]
func (h *ReportHandler) Payroll(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Payroll(r.Context()))
}
