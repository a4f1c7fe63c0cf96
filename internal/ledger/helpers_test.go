package ledger

import (
	"github.com/placementdesk/backend/internal/models"
	"github.com/shopspring/decimal"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func tx(id, date string, typ models.TransactionType, amount string, fromKind models.EntityKind, from string, toKind models.EntityKind, to string) models.Transaction {
	return models.Transaction{
		ID:             id,
		Date:           date,
		Type:           typ,
		Amount:         d(amount),
		FromEntityID:   from,
		FromEntityType: fromKind,
		ToEntityID:     to,
		ToEntityType:   toKind,
	}
}
