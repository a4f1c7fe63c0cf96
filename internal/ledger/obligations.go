package ledger

import (
	"fmt"
	"time"

	"github.com/placementdesk/backend/internal/models"
	"github.com/shopspring/decimal"
)

// MaxCycleScan bounds the month-by-month scan of DueCycles.
const MaxCycleScan = 600

// DefaultSalaryDueDay is used for staff without an explicit salary day; it
// clamps to the last day of every month.
const DefaultSalaryDueDay = 31

// DueCycles counts the monthly cycles whose due date has been reached, scanning
// from the month of start. The due day is clamped to the last day of short
// months (31 becomes 30 in April, 28 or 29 in February). Counting stops at the
// first due date after the reference day, which is now, or end when end is
// earlier. At most MaxCycleScan months are examined.
func DueCycles(start time.Time, dueDay int, end *time.Time, now time.Time) int {
	ref := day(now)
	if end != nil && day(*end).Before(ref) {
		ref = day(*end)
	}
	if dueDay < 1 {
		dueDay = 1
	}

	y, m, _ := start.Date()
	count := 0
	for i := 0; i < MaxCycleScan; i++ {
		first := time.Date(y, m+time.Month(i), 1, 0, 0, 0, 0, time.UTC)
		d := dueDay
		if last := first.AddDate(0, 1, -1).Day(); d > last {
			d = last
		}
		due := time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)
		if ref.Before(due) {
			break
		}
		count++
	}
	return count
}

// PaidTo sums Expense transactions whose destination is the payee.
func PaidTo(payeeID string, kind models.EntityKind, txs []models.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txs {
		if t.Type == models.TxExpense && t.ToEntityID == payeeID && t.ToEntityType == kind {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// ObligationArrears replays a recurring obligation: cycles due times the monthly
// amount, less what was paid to the payee.
func ObligationArrears(o models.Obligation, txs []models.Transaction, now time.Time) (models.Arrears, error) {
	start, err := ParseDate(o.StartDate)
	if err != nil {
		return models.Arrears{}, fmt.Errorf("obligation %s start: %w", o.ID, err)
	}
	var end *time.Time
	if o.EndDate != nil && *o.EndDate != "" {
		e, err := ParseDate(*o.EndDate)
		if err != nil {
			return models.Arrears{}, fmt.Errorf("obligation %s end: %w", o.ID, err)
		}
		end = &e
	}
	return arrears(o.ID, o.Name, start, o.DueDay, end, o.MonthlyAmount, PaidTo(o.PayeeID, o.PayeeType, txs), now), nil
}

// PayrollArrears treats a staff member's monthly salary as an obligation that
// runs from the joining date to the leaving date.
func PayrollArrears(s models.Staff, txs []models.Transaction, now time.Time) (models.Arrears, error) {
	paid := PaidTo(s.ID, models.EntityStaff, txs)
	if s.JoiningDate == "" || s.MonthlySalary.IsZero() {
		return models.Arrears{
			ObligationID: s.ID,
			Name:         s.Name,
			Payable:      decimal.Zero,
			Paid:         paid,
			Arrears:      paid.Neg(),
		}, nil
	}
	start, err := ParseDate(s.JoiningDate)
	if err != nil {
		return models.Arrears{}, fmt.Errorf("staff %s joining date: %w", s.ID, err)
	}
	var end *time.Time
	if s.LeavingDate != nil && *s.LeavingDate != "" {
		e, err := ParseDate(*s.LeavingDate)
		if err != nil {
			return models.Arrears{}, fmt.Errorf("staff %s leaving date: %w", s.ID, err)
		}
		end = &e
	}
	dueDay := s.SalaryDueDay
	if dueDay == 0 {
		dueDay = DefaultSalaryDueDay
	}
	return arrears(s.ID, s.Name, start, dueDay, end, s.MonthlySalary, paid, now), nil
}

func arrears(id, name string, start time.Time, dueDay int, end *time.Time, monthly, paid decimal.Decimal, now time.Time) models.Arrears {
	cycles := DueCycles(start, dueDay, end, now)
	payable := monthly.Mul(decimal.NewFromInt(int64(cycles)))
	return models.Arrears{
		ObligationID: id,
		Name:         name,
		Cycles:       cycles,
		Payable:      payable,
		Paid:         paid,
		Arrears:      payable.Sub(paid),
	}
}
