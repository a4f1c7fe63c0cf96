package models

import "github.com/shopspring/decimal"

func init() {
	// Amounts travel as JSON numbers so backups stay readable by the web client.
	decimal.MarshalJSONWithoutQuotes = true
}

// EntityKind is the role a participant plays in a transaction.
type EntityKind string

const (
	EntityAccount   EntityKind = "Account"
	EntityCandidate EntityKind = "Candidate"
	EntityStaff     EntityKind = "Staff"
)

func (k EntityKind) Valid() bool {
	switch k {
	case EntityAccount, EntityCandidate, EntityStaff:
		return true
	}
	return false
}

// AccountKind is the economic classification of a ledger account.
type AccountKind string

const (
	AccountBank     AccountKind = "Bank"
	AccountCash     AccountKind = "Cash"
	AccountDebtor   AccountKind = "Debtor"
	AccountCreditor AccountKind = "Creditor"
	AccountExpense  AccountKind = "Expense"
	AccountSalary   AccountKind = "Salary"
	AccountIncome   AccountKind = "Income"
	AccountEquity   AccountKind = "Equity"
)

// AccountKinds lists every classification in display order.
var AccountKinds = []AccountKind{
	AccountBank, AccountCash, AccountDebtor, AccountCreditor,
	AccountExpense, AccountSalary, AccountIncome, AccountEquity,
}

func (k AccountKind) Valid() bool {
	for _, v := range AccountKinds {
		if k == v {
			return true
		}
	}
	return false
}

// IsLiability reports whether the opening balance of this kind is owed by the office.
func (k AccountKind) IsLiability() bool {
	return k == AccountCreditor || k == AccountSalary
}

// IsLiquid reports whether the kind holds money on hand.
func (k AccountKind) IsLiquid() bool {
	return k == AccountBank || k == AccountCash
}

// TransactionType is a reporting tag. It never decides the sign of a balance.
type TransactionType string

const (
	TxIncome   TransactionType = "Income"
	TxExpense  TransactionType = "Expense"
	TxTransfer TransactionType = "Transfer"
	TxRefund   TransactionType = "Refund"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TxIncome, TxExpense, TxTransfer, TxRefund:
		return true
	}
	return false
}

// Role of a staff user.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// Elevated reports whether the role may alter locked transactions.
func (r Role) Elevated() bool {
	return r == RoleAdmin
}
