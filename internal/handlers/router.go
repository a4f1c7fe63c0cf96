package handlers

import (
	"github.com/go-chi/chi/v5"
	mW "github.com/placementdesk/backend/internal/middleware"
	"github.com/placementdesk/backend/internal/models"
)

// API groups the handlers served under /api/v1.
type API struct {
	Auth         *AuthHandler
	Accounts     *AccountHandler
	Candidates   *CandidateHandler
	Staff        *StaffHandler
	Transactions *TransactionHandler
	Obligations  *ObligationHandler
	Reports      *ReportHandler
	Backup       *BackupHandler
	Receipts     *ReceiptHandler
}

// Mount registers every endpoint on r.
func (a API) Mount(r chi.Router) {
	// Public endpoints (no auth required)
	r.Post("/auth/login", a.Auth.Login)
	r.Get("/receipts/{code}", a.Receipts.Verify)

	// Protected endpoints (auth required)
	r.Group(func(r chi.Router) {
		r.Use(mW.AuthMiddleware)

		r.Post("/auth/logout", a.Auth.Logout)
		r.Get("/auth/me", a.Auth.Me)

		r.Route("/accounts", a.Accounts.Routes)
		r.Route("/candidates", a.Candidates.Routes)
		r.Route("/staff", a.Staff.Routes)
		r.Route("/transactions", a.Transactions.Routes)
		r.Route("/obligations", a.Obligations.Routes)
		r.Route("/reports", a.Reports.Routes)

		r.Group(func(r chi.Router) {
			r.Use(mW.RequireRole(models.RoleAdmin))
			r.Get("/backup", a.Backup.Export)
			r.Post("/backup", a.Backup.Import)
		})
	})
}
