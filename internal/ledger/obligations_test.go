package ledger

import (
	"testing"
	"time"

	"github.com/placementdesk/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDueCycles(t *testing.T) {
	testCases := []struct {
		name   string
		start  string
		dueDay int
		end    string
		now    string
		want   int
	}{
		{name: "before first due date", start: "2024-01-01", dueDay: 5, now: "2024-01-04", want: 0},
		{name: "on the due date", start: "2024-01-01", dueDay: 5, now: "2024-01-05", want: 1},
		{name: "three months later", start: "2024-01-01", dueDay: 5, now: "2024-03-20", want: 3},
		{name: "start month counts even after its due day", start: "2024-01-20", dueDay: 5, now: "2024-01-25", want: 1},
		{name: "day 31 clamps in leap February", start: "2024-02-01", dueDay: 31, now: "2024-02-29", want: 1},
		{name: "day 31 clamps in February", start: "2023-02-01", dueDay: 31, now: "2023-02-28", want: 1},
		{name: "day 31 clamps in April", start: "2024-04-01", dueDay: 31, now: "2024-04-30", want: 1},
		{name: "day 31 not reached in March", start: "2024-03-01", dueDay: 31, now: "2024-03-30", want: 0},
		{name: "end date stops counting", start: "2024-01-01", dueDay: 1, end: "2024-03-15", now: "2025-01-01", want: 3},
		{name: "future end date uses now", start: "2024-01-01", dueDay: 1, end: "2030-01-01", now: "2024-02-01", want: 2},
		{name: "start in the future", start: "2030-01-01", dueDay: 1, now: "2024-01-01", want: 0},
		{name: "across a year boundary", start: "2023-11-15", dueDay: 15, now: "2024-02-15", want: 4},
		{name: "scan is capped", start: "1900-01-01", dueDay: 1, now: "2024-01-01", want: MaxCycleScan},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var end *time.Time
			if tc.end != "" {
				e := date(tc.end)
				end = &e
			}
			assert.Equal(t, tc.want, DueCycles(date(tc.start), tc.dueDay, end, date(tc.now)))
		})
	}
}

func TestObligationArrears(t *testing.T) {
	o := models.Obligation{
		ID:            "rent",
		Name:          "Office rent",
		PayeeID:       "LANDLORD",
		PayeeType:     models.EntityAccount,
		MonthlyAmount: d("15000"),
		StartDate:     "2024-01-01",
		DueDay:        5,
		IsActive:      true,
	}
	txs := []models.Transaction{
		tx("p1", "2024-01-05", models.TxExpense, "15000", models.EntityAccount, "B", models.EntityAccount, "LANDLORD"),
		tx("p2", "2024-02-07", models.TxExpense, "10000", models.EntityAccount, "B", models.EntityAccount, "LANDLORD"),
		// Not a payment: wrong type.
		tx("p3", "2024-02-08", models.TxTransfer, "5000", models.EntityAccount, "B", models.EntityAccount, "LANDLORD"),
	}

	a, err := ObligationArrears(o, txs, date("2024-03-10"))
	require.NoError(t, err)
	assert.Equal(t, 3, a.Cycles)
	assert.True(t, a.Payable.Equal(d("45000")))
	assert.True(t, a.Paid.Equal(d("25000")))
	assert.True(t, a.Arrears.Equal(d("20000")))

	t.Run("invalid start date", func(t *testing.T) {
		bad := o
		bad.StartDate = "soon"
		_, err := ObligationArrears(bad, txs, date("2024-03-10"))
		assert.Error(t, err)
	})
}

func TestPayrollArrears(t *testing.T) {
	leaving := "2024-04-10"
	s := models.Staff{
		ID:            "S1",
		Name:          "Asha",
		MonthlySalary: d("20000"),
		JoiningDate:   "2024-01-15",
		LeavingDate:   &leaving,
		IsActive:      true,
	}
	txs := []models.Transaction{
		tx("s1", "2024-01-31", models.TxExpense, "20000", models.EntityAccount, "B", models.EntityStaff, "S1"),
		tx("s2", "2024-03-01", models.TxExpense, "20000", models.EntityAccount, "B", models.EntityStaff, "S1"),
	}

	// Salary falls due on the last day of each month: Jan, Feb, Mar.
	a, err := PayrollArrears(s, txs, date("2024-06-01"))
	require.NoError(t, err)
	assert.Equal(t, 3, a.Cycles)
	assert.True(t, a.Arrears.Equal(d("20000")))

	t.Run("no salary configured", func(t *testing.T) {
		a, err := PayrollArrears(models.Staff{ID: "S2"}, txs, date("2024-06-01"))
		require.NoError(t, err)
		assert.Zero(t, a.Cycles)
		assert.True(t, a.Arrears.IsZero())
	})
}
