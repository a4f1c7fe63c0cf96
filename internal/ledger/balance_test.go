package ledger

import (
	"testing"

	"github.com/placementdesk/backend/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputeBalance_OpeningBalance(t *testing.T) {
	t.Run("asset account starts positive", func(t *testing.T) {
		got := ComputeBalance("a1", models.EntityAccount, nil, d("100"), models.AccountBank)
		assert.True(t, got.Equal(d("100")), got.String())
	})

	t.Run("creditor account starts negative", func(t *testing.T) {
		got := ComputeBalance("a1", models.EntityAccount, []models.Transaction{}, d("100"), models.AccountCreditor)
		assert.True(t, got.Equal(d("-100")), got.String())
	})

	t.Run("candidate ignores opening balance", func(t *testing.T) {
		got := ComputeBalance("c1", models.EntityCandidate, nil, d("100"), "")
		assert.True(t, got.IsZero(), got.String())
	})

	t.Run("staff ignores opening balance even with a liability classification", func(t *testing.T) {
		got := ComputeBalance("s1", models.EntityStaff, nil, d("100"), models.AccountSalary)
		assert.True(t, got.IsZero(), got.String())
	})

	t.Run("missing classification is asset-like", func(t *testing.T) {
		got := ComputeBalance("a1", models.EntityAccount, nil, d("40"), "")
		assert.True(t, got.Equal(d("40")), got.String())
	})
}

func TestComputeBalance_ClassificationSignSymmetry(t *testing.T) {
	for _, x := range []string{"0", "1", "250.75", "-90", "-0.01"} {
		for _, kind := range models.AccountKinds {
			got := ComputeBalance("acc", models.EntityAccount, nil, d(x), kind)
			want := d(x)
			if kind == models.AccountCreditor || kind == models.AccountSalary {
				want = want.Neg()
			}
			assert.True(t, got.Equal(want), "kind %s opening %s: got %s", kind, x, got)
		}
	}
}

func TestComputeBalance_Fold(t *testing.T) {
	t1 := tx("t1", "2024-01-05", models.TxIncome, "1000", models.EntityCandidate, "C1", models.EntityAccount, "A1")
	t2 := tx("t2", "2024-01-06", models.TxExpense, "200", models.EntityAccount, "A1", models.EntityAccount, "V1")
	txs := []models.Transaction{t1, t2}

	assert.True(t, ComputeBalance("A1", models.EntityAccount, txs, decimal.Zero, "").Equal(d("800")))
	assert.True(t, ComputeBalance("C1", models.EntityCandidate, txs, decimal.Zero, "").Equal(d("-1000")))
	assert.True(t, ComputeBalance("V1", models.EntityAccount, txs, decimal.Zero, models.AccountExpense).Equal(d("200")))

	t.Run("kind must match as well as id", func(t *testing.T) {
		got := ComputeBalance("C1", models.EntityAccount, txs, decimal.Zero, "")
		assert.True(t, got.IsZero())
	})

	t.Run("refund to candidate credits the candidate", func(t *testing.T) {
		r := tx("t3", "2024-01-07", models.TxRefund, "300", models.EntityAccount, "A1", models.EntityCandidate, "C1")
		got := ComputeBalance("C1", models.EntityCandidate, append(txs, r), decimal.Zero, "")
		assert.True(t, got.Equal(d("-700")), got.String())
	})

	t.Run("unknown entity yields opening position", func(t *testing.T) {
		got := ComputeBalance("nobody", models.EntityAccount, txs, d("12"), models.AccountCash)
		assert.True(t, got.Equal(d("12")))
	})

	t.Run("malformed amounts are folded as-is", func(t *testing.T) {
		neg := tx("t9", "2024-01-08", models.TxIncome, "-50", models.EntityCandidate, "C2", models.EntityAccount, "A2")
		got := ComputeBalance("A2", models.EntityAccount, []models.Transaction{neg}, decimal.Zero, "")
		assert.True(t, got.Equal(d("-50")))
	})
}

func TestComputeBalance_DoesNotMutateInput(t *testing.T) {
	txs := []models.Transaction{
		tx("t2", "2024-02-01", models.TxExpense, "5", models.EntityAccount, "A", models.EntityStaff, "S"),
		tx("t1", "2024-01-01", models.TxIncome, "7", models.EntityCandidate, "C", models.EntityAccount, "A"),
	}
	before := append([]models.Transaction(nil), txs...)

	first := ComputeBalance("A", models.EntityAccount, txs, d("3"), models.AccountBank)
	second := ComputeBalance("A", models.EntityAccount, txs, d("3"), models.AccountBank)

	assert.True(t, first.Equal(second))
	assert.True(t, first.Equal(d("5")))
	assert.Equal(t, before, txs)
}

func TestComputeBalance_Additivity(t *testing.T) {
	l1 := []models.Transaction{
		tx("a", "2024-01-01", models.TxIncome, "100", models.EntityCandidate, "C", models.EntityAccount, "A"),
		tx("b", "2024-01-02", models.TxTransfer, "30", models.EntityAccount, "A", models.EntityAccount, "B"),
	}
	l2 := []models.Transaction{
		tx("c", "2024-01-03", models.TxExpense, "45.5", models.EntityAccount, "A", models.EntityStaff, "S"),
		tx("d", "2024-01-04", models.TxRefund, "10", models.EntityAccount, "A", models.EntityCandidate, "C"),
		tx("e", "2024-01-05", models.TxIncome, "2", models.EntityAccount, "X", models.EntityAccount, "A"),
	}
	opening := d("500")

	whole := ComputeBalance("A", models.EntityAccount, append(append([]models.Transaction{}, l1...), l2...), opening, models.AccountBank)
	part := ComputeBalance("A", models.EntityAccount, l1, opening, models.AccountBank).
		Add(ComputeBalance("A", models.EntityAccount, l2, decimal.Zero, models.AccountBank))
	assert.True(t, whole.Equal(part), "%s != %s", whole, part)

	reversed := append(append([]models.Transaction{}, l2...), l1...)
	for i, j := 0, len(reversed)-1; i < j; i, j = i+1, j-1 {
		reversed[i], reversed[j] = reversed[j], reversed[i]
	}
	assert.True(t, whole.Equal(ComputeBalance("A", models.EntityAccount, reversed, opening, models.AccountBank)))
}

func TestComputeBalance_SelfReferenceNetsToZero(t *testing.T) {
	self := tx("s", "2024-01-01", models.TxTransfer, "75", models.EntityAccount, "A", models.EntityAccount, "A")
	got := ComputeBalance("A", models.EntityAccount, []models.Transaction{self}, d("10"), models.AccountCash)
	assert.True(t, got.Equal(d("10")))
}

func TestEntityBalance(t *testing.T) {
	snap := &models.Snapshot{
		Accounts: []models.Account{{ID: "L", Type: models.AccountCreditor, OpeningBalance: d("1000")}},
		Transactions: []models.Transaction{
			tx("t1", "2024-03-01", models.TxExpense, "400", models.EntityAccount, "B", models.EntityAccount, "L"),
			tx("t2", "2024-03-02", models.TxExpense, "90", models.EntityAccount, "B", models.EntityStaff, "S"),
		},
	}
	assert.True(t, EntityBalance("L", models.EntityAccount, snap).Equal(d("-600")))
	assert.True(t, EntityBalance("S", models.EntityStaff, snap).Equal(d("90")))
	assert.True(t, EntityBalance("missing", models.EntityAccount, snap).IsZero())
}
