package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Staff is an office user. Staff are also transaction participants, e.g. when
// salary or an advance is paid to them.
type Staff struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	Phone         string          `json:"phone,omitempty"`
	Role          Role            `json:"role"`
	PasswordHash  string          `json:"passwordHash,omitempty"`
	MonthlySalary decimal.Decimal `json:"monthlySalary"`
	SalaryDueDay  int             `json:"salaryDueDay,omitempty"`
	JoiningDate   string          `json:"joiningDate,omitempty"`
	LeavingDate   *string         `json:"leavingDate,omitempty"`
	IsActive      bool            `json:"isActive"`
	LastLogin     *time.Time      `json:"lastLogin,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// Public returns a copy without credentials.
func (s Staff) Public() Staff {
	s.PasswordHash = ""
	return s
}

// StaffInput is used for creating and updating staff users.
type StaffInput struct {
	Name          string          `json:"name" validate:"required,min=2,max=120"`
	Email         string          `json:"email" validate:"required,email"`
	Phone         string          `json:"phone" validate:"max=20"`
	Role          Role            `json:"role" validate:"required,oneof=admin staff"`
	Password      string          `json:"password" validate:"omitempty,min=6"`
	MonthlySalary decimal.Decimal `json:"monthlySalary"`
	SalaryDueDay  int             `json:"salaryDueDay" validate:"omitempty,min=1,max=31"`
	JoiningDate   string          `json:"joiningDate" validate:"omitempty,datetime=2006-01-02"`
	LeavingDate   *string         `json:"leavingDate" validate:"omitempty,datetime=2006-01-02"`
}
