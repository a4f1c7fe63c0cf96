package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a named bucket of money. Its balance is always derived from the
// transaction log and never stored.
type Account struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Type           AccountKind     `json:"type"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	IsSystem       bool            `json:"isSystem,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// AccountInput is used for creating and updating accounts.
type AccountInput struct {
	Name           string          `json:"name" validate:"required,min=2,max=120"`
	Type           AccountKind     `json:"type" validate:"required,oneof=Bank Cash Debtor Creditor Expense Salary Income Equity"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Notes          string          `json:"notes" validate:"max=500"`
}

// AccountView is an account together with its computed balance.
type AccountView struct {
	Account
	Balance decimal.Decimal `json:"balance"`
}
