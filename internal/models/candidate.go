package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Candidate is a person enrolled in training. Candidates with financial history
// are deactivated rather than deleted.
type Candidate struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Phone        string          `json:"phone,omitempty"`
	Email        string          `json:"email,omitempty"`
	Course       string          `json:"course,omitempty"`
	AgreedAmount decimal.Decimal `json:"agreedAmount"`
	EnrolledOn   string          `json:"enrolledOn,omitempty"`
	IsActive     bool            `json:"isActive"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// CandidateInput is used for creating and updating candidates.
type CandidateInput struct {
	Name         string          `json:"name" validate:"required,min=2,max=120"`
	Phone        string          `json:"phone" validate:"max=20"`
	Email        string          `json:"email" validate:"omitempty,email"`
	Course       string          `json:"course" validate:"max=120"`
	AgreedAmount decimal.Decimal `json:"agreedAmount"`
	EnrolledOn   string          `json:"enrolledOn" validate:"omitempty,datetime=2006-01-02"`
}

// CandidateSummary carries the fee figures every screen shows for a candidate.
type CandidateSummary struct {
	Candidate
	Paid    decimal.Decimal `json:"paid"`
	Due     decimal.Decimal `json:"due"`
	Cleared bool            `json:"cleared"`
}
