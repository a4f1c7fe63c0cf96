package ledger

import (
	"sort"
	"time"

	"github.com/placementdesk/backend/internal/models"
	"github.com/shopspring/decimal"
)

// ProfitAndLoss covers the transactions of a period.
type ProfitAndLoss struct {
	From       string          `json:"from,omitempty"`
	To         string          `json:"to,omitempty"`
	Revenue    decimal.Decimal `json:"revenue"`
	Refunds    decimal.Decimal `json:"refunds"`
	NetRevenue decimal.Decimal `json:"netRevenue"`
	Expenses   decimal.Decimal `json:"expenses"`
	NetProfit  decimal.Decimal `json:"netProfit"`
}

// BuildProfitAndLoss restricts the log to [from, to] (either bound may be empty)
// and applies the revenue and expense rules.
func BuildProfitAndLoss(snap *models.Snapshot, from, to string) ProfitAndLoss {
	f := models.TransactionFilter{From: from, To: to}
	var txs []models.Transaction
	for _, t := range snap.Transactions {
		if f.Match(t) {
			txs = append(txs, t)
		}
	}
	revenue := OperatingRevenue(snap.Accounts, txs)
	refunds := RefundsToCandidates(txs)
	expenses := OperatingExpenses(snap.Accounts, txs)
	net := revenue.Sub(refunds)
	return ProfitAndLoss{
		From:       from,
		To:         to,
		Revenue:    revenue,
		Refunds:    refunds,
		NetRevenue: net,
		Expenses:   expenses,
		NetProfit:  net.Sub(expenses),
	}
}

// SheetLine is one account on the balance sheet.
type SheetLine struct {
	AccountID string             `json:"accountId,omitempty"`
	Name      string             `json:"name"`
	Type      models.AccountKind `json:"type,omitempty"`
	Amount    decimal.Decimal    `json:"amount"`
}

// BalanceSheet groups account balances by economic side.
type BalanceSheet struct {
	Assets           []SheetLine     `json:"assets"`
	Liabilities      []SheetLine     `json:"liabilities"`
	Equity           []SheetLine     `json:"equity"`
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal `json:"totalEquity"`
	NetProfit        decimal.Decimal `json:"netProfit"`
}

// BuildBalanceSheet lists Bank, Cash and Debtor accounts plus candidate
// receivables as assets, Creditor and Salary accounts as liabilities (shown as
// the amount owed), and Equity accounts as they stand. Expense and Income
// accounts feed the profit figure instead.
func BuildBalanceSheet(snap *models.Snapshot) BalanceSheet {
	bs := BalanceSheet{
		Assets:           []SheetLine{},
		Liabilities:      []SheetLine{},
		Equity:           []SheetLine{},
		TotalAssets:      decimal.Zero,
		TotalLiabilities: decimal.Zero,
		TotalEquity:      decimal.Zero,
	}
	accounts := append([]models.Account(nil), snap.Accounts...)
	sort.SliceStable(accounts, func(i, j int) bool { return accounts[i].Name < accounts[j].Name })

	for _, a := range accounts {
		b := AccountBalance(a, snap.Transactions)
		line := SheetLine{AccountID: a.ID, Name: a.Name, Type: a.Type}
		switch a.Type {
		case models.AccountBank, models.AccountCash, models.AccountDebtor:
			line.Amount = b
			bs.Assets = append(bs.Assets, line)
			bs.TotalAssets = bs.TotalAssets.Add(b)
		case models.AccountCreditor, models.AccountSalary:
			line.Amount = b.Neg()
			bs.Liabilities = append(bs.Liabilities, line)
			bs.TotalLiabilities = bs.TotalLiabilities.Add(line.Amount)
		case models.AccountEquity:
			line.Amount = b
			bs.Equity = append(bs.Equity, line)
			bs.TotalEquity = bs.TotalEquity.Add(b)
		}
	}

	receivables := TotalReceivables(snap.Candidates, snap.Transactions)
	bs.Assets = append(bs.Assets, SheetLine{Name: "Candidate receivables", Amount: receivables})
	bs.TotalAssets = bs.TotalAssets.Add(receivables)
	bs.NetProfit = BuildProfitAndLoss(snap, "", "").NetProfit
	return bs
}

// Dashboard is the office summary.
type Dashboard struct {
	CashInHand         decimal.Decimal      `json:"cashInHand"`
	Receivables        decimal.Decimal      `json:"receivables"`
	Debtors            decimal.Decimal      `json:"debtors"`
	Creditors          decimal.Decimal      `json:"creditors"`
	Revenue            decimal.Decimal      `json:"revenue"`
	Expenses           decimal.Decimal      `json:"expenses"`
	NetProfit          decimal.Decimal      `json:"netProfit"`
	PayrollArrears     decimal.Decimal      `json:"payrollArrears"`
	ObligationArrears  decimal.Decimal      `json:"obligationArrears"`
	TotalCandidates    int                  `json:"totalCandidates"`
	ActiveCandidates   int                  `json:"activeCandidates"`
	ClearedCandidates  int                  `json:"clearedCandidates"`
	TotalTransactions  int                  `json:"totalTransactions"`
	LockedTransactions int                  `json:"lockedTransactions"`
	RecentTransactions []models.Transaction `json:"recentTransactions"`
}

// RecentLimit is the number of transactions shown on the dashboard.
const RecentLimit = 5

// BuildDashboard composes the dashboard from the shared rules. Records whose
// dates cannot be parsed are skipped from the arrears totals.
func BuildDashboard(snap *models.Snapshot, now time.Time) Dashboard {
	pl := BuildProfitAndLoss(snap, "", "")
	d := Dashboard{
		CashInHand:        CashInHand(snap.Accounts, snap.Transactions),
		Receivables:       TotalReceivables(snap.Candidates, snap.Transactions),
		Debtors:           DebtorsTotal(snap.Accounts, snap.Transactions),
		Creditors:         CreditorsTotal(snap.Accounts, snap.Transactions),
		Revenue:           pl.NetRevenue,
		Expenses:          pl.Expenses,
		NetProfit:         pl.NetProfit,
		PayrollArrears:    decimal.Zero,
		ObligationArrears: decimal.Zero,
		TotalCandidates:   len(snap.Candidates),
		TotalTransactions: len(snap.Transactions),
	}

	for _, c := range snap.Candidates {
		if c.IsActive {
			d.ActiveCandidates++
		}
		if Summarize(c, snap.Transactions).Cleared {
			d.ClearedCandidates++
		}
	}
	for _, t := range snap.Transactions {
		if t.IsLocked {
			d.LockedTransactions++
		}
	}
	for _, s := range snap.Staff {
		if !s.IsActive {
			continue
		}
		if a, err := PayrollArrears(s, snap.Transactions, now); err == nil {
			d.PayrollArrears = d.PayrollArrears.Add(a.Arrears)
		}
	}
	for _, o := range snap.Obligations {
		if !o.IsActive {
			continue
		}
		if a, err := ObligationArrears(o, snap.Transactions, now); err == nil {
			d.ObligationArrears = d.ObligationArrears.Add(a.Arrears)
		}
	}
	d.RecentTransactions = Recent(snap.Transactions, RecentLimit)
	return d
}

// Recent returns the n latest transactions by date, newest first.
func Recent(txs []models.Transaction, n int) []models.Transaction {
	out := append([]models.Transaction(nil), txs...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > n {
		out = out[:n]
	}
	if out == nil {
		out = []models.Transaction{}
	}
	return out
}
