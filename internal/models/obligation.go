package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Obligation is a fixed monthly liability such as rent. Payments against it are
// Expense transactions whose destination is the payee.
type Obligation struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	PayeeID       string          `json:"payeeId"`
	PayeeType     EntityKind      `json:"payeeType"`
	MonthlyAmount decimal.Decimal `json:"monthlyAmount"`
	StartDate     string          `json:"startDate"`
	DueDay        int             `json:"dueDay"`
	EndDate       *string         `json:"endDate,omitempty"`
	IsActive      bool            `json:"isActive"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// ObligationInput is used for creating and updating obligations.
type ObligationInput struct {
	Name          string          `json:"name" validate:"required,min=2,max=120"`
	PayeeID       string          `json:"payeeId" validate:"required"`
	PayeeType     EntityKind      `json:"payeeType" validate:"required"`
	MonthlyAmount decimal.Decimal `json:"monthlyAmount"`
	StartDate     string          `json:"startDate" validate:"required,datetime=2006-01-02"`
	DueDay        int             `json:"dueDay" validate:"required,min=1,max=31"`
	EndDate       *string         `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
}

// Arrears is the outcome of replaying an obligation against the log.
type Arrears struct {
	ObligationID string          `json:"obligationId"`
	Name         string          `json:"name"`
	Cycles       int             `json:"cycles"`
	Payable      decimal.Decimal `json:"payable"`
	Paid         decimal.Decimal `json:"paid"`
	Arrears      decimal.Decimal `json:"arrears"`
}
