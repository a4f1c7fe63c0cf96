package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a directional movement of money from one participant to
// another. The amount is never negative; direction is carried by From/To.
type Transaction struct {
	ID             string          `json:"id"`
	Date           string          `json:"date"`
	Type           TransactionType `json:"type"`
	Amount         decimal.Decimal `json:"amount"`
	FromEntityID   string          `json:"fromEntityId"`
	FromEntityType EntityKind      `json:"fromEntityType"`
	ToEntityID     string          `json:"toEntityId"`
	ToEntityType   EntityKind      `json:"toEntityType"`
	IsLocked       bool            `json:"isLocked"`
	Description    string          `json:"description,omitempty"`
	Reference      string          `json:"reference,omitempty"`
	CreatedBy      string          `json:"createdBy,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// References reports whether the transaction names the participant on either side.
func (t Transaction) References(id string, kind EntityKind) bool {
	return (t.FromEntityID == id && t.FromEntityType == kind) ||
		(t.ToEntityID == id && t.ToEntityType == kind)
}

// TransactionInput is used for creating and updating transactions.
type TransactionInput struct {
	Date           string          `json:"date" validate:"required"`
	Type           TransactionType `json:"type" validate:"required,oneof=Income Expense Transfer Refund"`
	Amount         decimal.Decimal `json:"amount"`
	FromEntityID   string          `json:"fromEntityId" validate:"required"`
	FromEntityType EntityKind      `json:"fromEntityType" validate:"required,oneof=Account Candidate Staff"`
	ToEntityID     string          `json:"toEntityId" validate:"required"`
	ToEntityType   EntityKind      `json:"toEntityType" validate:"required,oneof=Account Candidate Staff"`
	Description    string          `json:"description" validate:"max=500"`
	Reference      string          `json:"reference" validate:"max=100"`
}

// TransactionFilter narrows a transaction listing.
type TransactionFilter struct {
	EntityID   string
	EntityType EntityKind
	Type       TransactionType
	From       string
	To         string
}

// Match reports whether t passes the filter. Dates compare on their ISO prefix.
func (f TransactionFilter) Match(t Transaction) bool {
	if f.EntityID != "" && !t.References(f.EntityID, f.EntityType) {
		return false
	}
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	day := t.Date
	if len(day) > 10 {
		day = day[:10]
	}
	if f.From != "" && day < f.From {
		return false
	}
	if f.To != "" && day > f.To {
		return false
	}
	return true
}
