package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/placementdesk/backend/internal/ledger"
	"github.com/placementdesk/backend/internal/models"
	"github.com/shopspring/decimal"
)

// ReportService answers every read-side figure from a single snapshot.
type ReportService struct {
	state    LedgerState
	currency string
	now      clock
}

func NewReportService(state LedgerState, currency string) *ReportService {
	return &ReportService{state: state, currency: currency, now: time.Now}
}

// BalanceReport is the balance of one participant.
type BalanceReport struct {
	EntityID   string            `json:"entityId"`
	EntityType models.EntityKind `json:"entityType"`
	Name       string            `json:"name"`
	Balance    decimal.Decimal   `json:"balance"`
	Display    string            `json:"display"`
}

// StatementReport is a participant statement. Candidate statements also carry
// the fee summary so the due shown matches every other screen.
type StatementReport struct {
	ledger.Statement
	Name      string                   `json:"name"`
	Candidate *models.CandidateSummary `json:"candidate,omitempty"`
}

// ReceivableLine is one candidate on the receivables report.
type ReceivableLine struct {
	models.CandidateSummary
	DisplayDue decimal.Decimal `json:"displayDue"`
}

// Receivables lists every candidate's due. Total sums the unclamped dues.
type Receivables struct {
	Lines []ReceivableLine `json:"lines"`
	Total decimal.Decimal  `json:"total"`
}

func entityName(snap *models.Snapshot, id string, kind models.EntityKind) (string, bool) {
	switch kind {
	case models.EntityAccount:
		if a, ok := snap.Account(id); ok {
			return a.Name, true
		}
	case models.EntityCandidate:
		if c, ok := snap.Candidate(id); ok {
			return c.Name, true
		}
	case models.EntityStaff:
		if st, ok := snap.StaffMember(id); ok {
			return st.Name, true
		}
	}
	return "", false
}

func (s *ReportService) Balance(ctx context.Context, id string, kind models.EntityKind) (BalanceReport, error) {
	snap := s.state.Snapshot()
	name, ok := entityName(snap, id, kind)
	if !ok {
		return BalanceReport{}, fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	balance := ledger.EntityBalance(id, kind, snap)
	return BalanceReport{
		EntityID:   id,
		EntityType: kind,
		Name:       name,
		Balance:    balance,
		Display:    ledger.FormatAmount(balance, s.currency),
	}, nil
}

func (s *ReportService) Statement(ctx context.Context, id string, kind models.EntityKind) (StatementReport, error) {
	snap := s.state.Snapshot()
	name, ok := entityName(snap, id, kind)
	if !ok {
		return StatementReport{}, fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	report := StatementReport{Statement: ledger.EntityStatement(id, kind, snap), Name: name}
	if kind == models.EntityCandidate {
		c, _ := snap.Candidate(id)
		summary := ledger.Summarize(c, snap.Transactions)
		report.Candidate = &summary
	}
	return report, nil
}

func (s *ReportService) Dashboard(ctx context.Context) ledger.Dashboard {
	return ledger.BuildDashboard(s.state.Snapshot(), s.now())
}

// ProfitAndLoss covers [from, to]; both bounds are optional ISO dates.
func (s *ReportService) ProfitAndLoss(ctx context.Context, from, to string) (ledger.ProfitAndLoss, error) {
	for _, d := range []string{from, to} {
		if d == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return ledger.ProfitAndLoss{}, fmt.Errorf("%w: %q is not a YYYY-MM-DD date", ErrInvalidInput, d)
		}
	}
	if from != "" && to != "" && to < from {
		return ledger.ProfitAndLoss{}, fmt.Errorf("%w: period ends before it starts", ErrInvalidInput)
	}
	return ledger.BuildProfitAndLoss(s.state.Snapshot(), from, to), nil
}

func (s *ReportService) BalanceSheet(ctx context.Context) ledger.BalanceSheet {
	return ledger.BuildBalanceSheet(s.state.Snapshot())
}

func (s *ReportService) Receivables(ctx context.Context) Receivables {
	snap := s.state.Snapshot()
	r := Receivables{
		Lines: make([]ReceivableLine, 0, len(snap.Candidates)),
		Total: ledger.TotalReceivables(snap.Candidates, snap.Transactions),
	}
	for _, c := range snap.Candidates {
		summary := ledger.Summarize(c, snap.Transactions)
		r.Lines = append(r.Lines, ReceivableLine{CandidateSummary: summary, DisplayDue: ledger.DisplayDue(summary)})
	}
	return r
}

// Payroll returns salary arrears of active staff. Staff with unreadable dates
// are logged and skipped.
func (s *ReportService) Payroll(ctx context.Context) []models.Arrears {
	snap := s.state.Snapshot()
	now := s.now()
	out := make([]models.Arrears, 0, len(snap.Staff))
	for _, st := range snap.Staff {
		if !st.IsActive {
			continue
		}
		a, err := ledger.PayrollArrears(st, snap.Transactions, now)
		if err != nil {
			log.Printf("[REPORT] Skipping payroll for %s: %v", st.ID, err)
			continue
		}
		out = append(out, a)
	}
	return out
}
