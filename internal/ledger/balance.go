// Package ledger derives balances and reports from the transaction log.
//
// Nothing in this package stores a balance. Every figure is a fold over the
// transactions it is given, so a report is always consistent with the snapshot
// it was computed from.
package ledger

import (
	"github.com/placementdesk/backend/internal/models"
	"github.com/shopspring/decimal"
)

// ComputeBalance returns the signed balance of one participant.
//
// The opening balance only applies to accounts: liability classifications
// (Creditor, Salary) start negative, every other classification starts positive.
// An empty classification is treated as asset-like. Each transaction is then
// folded regardless of its type: money received adds, money paid subtracts.
// Unknown ids and an empty log are not errors; the result is just the opening
// position. txs is never modified.
func ComputeBalance(entityID string, kind models.EntityKind, txs []models.Transaction, openingBalance decimal.Decimal, classification models.AccountKind) decimal.Decimal {
	balance := decimal.Zero
	if kind == models.EntityAccount {
		if classification.IsLiability() {
			balance = balance.Sub(openingBalance)
		} else {
			balance = balance.Add(openingBalance)
		}
	}
	for i := range txs {
		balance = balance.Add(delta(&txs[i], entityID, kind))
	}
	return balance
}

// AccountBalance is ComputeBalance for a registered account.
func AccountBalance(a models.Account, txs []models.Transaction) decimal.Decimal {
	return ComputeBalance(a.ID, models.EntityAccount, txs, a.OpeningBalance, a.Type)
}

// EntityBalance is ComputeBalance for any participant. Non-account kinds have no
// opening balance.
func EntityBalance(id string, kind models.EntityKind, snap *models.Snapshot) decimal.Decimal {
	if kind == models.EntityAccount {
		if a, ok := snap.Account(id); ok {
			return AccountBalance(a, snap.Transactions)
		}
	}
	return ComputeBalance(id, kind, snap.Transactions, decimal.Zero, "")
}

// delta is the net effect of t on the participant. A transaction naming the
// participant on both sides nets to zero.
func delta(t *models.Transaction, id string, kind models.EntityKind) decimal.Decimal {
	d := decimal.Zero
	if t.ToEntityID == id && t.ToEntityType == kind {
		d = d.Add(t.Amount)
	}
	if t.FromEntityID == id && t.FromEntityType == kind {
		d = d.Sub(t.Amount)
	}
	return d
}
