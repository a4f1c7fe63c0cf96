package ledger

import (
	"sort"

	"github.com/placementdesk/backend/internal/models"
	"github.com/shopspring/decimal"
)

// StatementLine is one transaction as seen from a participant.
type StatementLine struct {
	Transaction models.Transaction `json:"transaction"`
	Debit       decimal.Decimal    `json:"debit"`
	Credit      decimal.Decimal    `json:"credit"`
	Balance     decimal.Decimal    `json:"balance"`
}

// Statement lists every movement of a participant with a running balance.
type Statement struct {
	EntityID       string            `json:"entityId"`
	EntityType     models.EntityKind `json:"entityType"`
	OpeningBalance decimal.Decimal   `json:"openingBalance"`
	Lines          []StatementLine   `json:"lines"`
	TotalDebit     decimal.Decimal   `json:"totalDebit"`
	TotalCredit    decimal.Decimal   `json:"totalCredit"`
	ClosingBalance decimal.Decimal   `json:"closingBalance"`
}

// BuildStatement orders the participant's transactions by date, then id, and
// accumulates from the signed opening position. The closing balance always
// equals ComputeBalance over the same inputs.
func BuildStatement(entityID string, kind models.EntityKind, txs []models.Transaction, openingBalance decimal.Decimal, classification models.AccountKind) Statement {
	opening := ComputeBalance(entityID, kind, nil, openingBalance, classification)
	st := Statement{
		EntityID:       entityID,
		EntityType:     kind,
		OpeningBalance: opening,
		Lines:          []StatementLine{},
		TotalDebit:     decimal.Zero,
		TotalCredit:    decimal.Zero,
	}

	var own []models.Transaction
	for _, t := range txs {
		if t.References(entityID, kind) {
			own = append(own, t)
		}
	}
	sort.SliceStable(own, func(i, j int) bool {
		if own[i].Date != own[j].Date {
			return own[i].Date < own[j].Date
		}
		return own[i].ID < own[j].ID
	})

	running := opening
	for i := range own {
		line := StatementLine{Transaction: own[i], Debit: decimal.Zero, Credit: decimal.Zero}
		if own[i].ToEntityID == entityID && own[i].ToEntityType == kind {
			line.Credit = own[i].Amount
		}
		if own[i].FromEntityID == entityID && own[i].FromEntityType == kind {
			line.Debit = own[i].Amount
		}
		running = running.Add(delta(&own[i], entityID, kind))
		line.Balance = running
		st.TotalDebit = st.TotalDebit.Add(line.Debit)
		st.TotalCredit = st.TotalCredit.Add(line.Credit)
		st.Lines = append(st.Lines, line)
	}
	st.ClosingBalance = running
	return st
}

// EntityStatement builds the statement of a registered participant.
func EntityStatement(id string, kind models.EntityKind, snap *models.Snapshot) Statement {
	if kind == models.EntityAccount {
		if a, ok := snap.Account(id); ok {
			return BuildStatement(id, kind, snap.Transactions, a.OpeningBalance, a.Type)
		}
	}
	return BuildStatement(id, kind, snap.Transactions, decimal.Zero, "")
}
