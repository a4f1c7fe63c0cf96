package ledger

import (
	"github.com/placementdesk/backend/internal/models"
	"github.com/shopspring/decimal"
)

// The functions in this file are the only definitions of the figures shown on
// candidate lists, detail views, dashboards and financial statements. Callers
// must not re-derive them.

// PaidByCandidate is Income paid by the candidate minus Refunds paid back to
// them. Transfers and Expenses involving the candidate are not fees.
func PaidByCandidate(candidateID string, txs []models.Transaction) decimal.Decimal {
	paid := decimal.Zero
	for _, t := range txs {
		switch {
		case t.Type == models.TxIncome && t.FromEntityType == models.EntityCandidate && t.FromEntityID == candidateID:
			paid = paid.Add(t.Amount)
		case t.Type == models.TxRefund && t.ToEntityType == models.EntityCandidate && t.ToEntityID == candidateID:
			paid = paid.Sub(t.Amount)
		}
	}
	return paid
}

// CandidateDue is the agreed fee minus what was paid. It is not clamped: an
// overpaid candidate has a negative due.
func CandidateDue(c models.Candidate, txs []models.Transaction) decimal.Decimal {
	return c.AgreedAmount.Sub(PaidByCandidate(c.ID, txs))
}

// Summarize returns the fee figures of one candidate. Cleared marks a due that
// is zero or negative; such dues are displayed as cleared, never as negative.
func Summarize(c models.Candidate, txs []models.Transaction) models.CandidateSummary {
	paid := PaidByCandidate(c.ID, txs)
	due := c.AgreedAmount.Sub(paid)
	return models.CandidateSummary{
		Candidate: c,
		Paid:      paid,
		Due:       due,
		Cleared:   !due.IsPositive(),
	}
}

// DisplayDue is the due clamped at zero for a single-record view.
func DisplayDue(s models.CandidateSummary) decimal.Decimal {
	if s.Cleared {
		return decimal.Zero
	}
	return s.Due
}

// TotalReceivables sums unclamped dues across candidates, so overpayments reduce
// the total.
func TotalReceivables(candidates []models.Candidate, txs []models.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, c := range candidates {
		total = total.Add(CandidateDue(c, txs))
	}
	return total
}

// DebtorsTotal sums the positive balances of Debtor accounts. Accounts with a
// zero or negative balance are left out.
func DebtorsTotal(accounts []models.Account, txs []models.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, a := range accounts {
		if a.Type != models.AccountDebtor {
			continue
		}
		if b := AccountBalance(a, txs); b.IsPositive() {
			total = total.Add(b)
		}
	}
	return total
}

// CreditorsTotal sums the magnitude of negative balances of Creditor and
// Salary accounts. Accounts with a zero or positive balance are left out.
func CreditorsTotal(accounts []models.Account, txs []models.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, a := range accounts {
		if !a.Type.IsLiability() {
			continue
		}
		if b := AccountBalance(a, txs); b.IsNegative() {
			total = total.Add(b.Neg())
		}
	}
	return total
}

// IsOperatingRevenue reports whether an Income transaction counts as revenue:
// its source is a candidate or an Income-kind account. Income from a creditor
// is a loan receipt, not profit.
func IsOperatingRevenue(t models.Transaction, kinds map[string]models.AccountKind) bool {
	if t.Type != models.TxIncome {
		return false
	}
	switch t.FromEntityType {
	case models.EntityCandidate:
		return true
	case models.EntityAccount:
		return kinds[t.FromEntityID] == models.AccountIncome
	}
	return false
}

// OperatingRevenue sums the transactions accepted by IsOperatingRevenue.
func OperatingRevenue(accounts []models.Account, txs []models.Transaction) decimal.Decimal {
	kinds := accountKinds(accounts)
	total := decimal.Zero
	for _, t := range txs {
		if IsOperatingRevenue(t, kinds) {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// IsOperatingExpense reports whether an Expense transaction is a cost. Payments
// into balance-sheet accounts (banks, cash, debtors, creditors, equity) move
// money around without consuming it.
func IsOperatingExpense(t models.Transaction, kinds map[string]models.AccountKind) bool {
	if t.Type != models.TxExpense {
		return false
	}
	if t.ToEntityType != models.EntityAccount {
		return true
	}
	switch kinds[t.ToEntityID] {
	case models.AccountBank, models.AccountCash, models.AccountDebtor, models.AccountCreditor, models.AccountEquity:
		return false
	}
	return true
}

// OperatingExpenses sums the transactions accepted by IsOperatingExpense.
func OperatingExpenses(accounts []models.Account, txs []models.Transaction) decimal.Decimal {
	kinds := accountKinds(accounts)
	total := decimal.Zero
	for _, t := range txs {
		if IsOperatingExpense(t, kinds) {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// RefundsToCandidates sums Refund transactions paid to candidates.
func RefundsToCandidates(txs []models.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txs {
		if t.Type == models.TxRefund && t.ToEntityType == models.EntityCandidate {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// CashInHand sums the balances of Bank and Cash accounts.
func CashInHand(accounts []models.Account, txs []models.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, a := range accounts {
		if a.Type.IsLiquid() {
			total = total.Add(AccountBalance(a, txs))
		}
	}
	return total
}

func accountKinds(accounts []models.Account) map[string]models.AccountKind {
	kinds := make(map[string]models.AccountKind, len(accounts))
	for _, a := range accounts {
		kinds[a.ID] = a.Type
	}
	return kinds
}
