package services

import (
	"context"
	"testing"

	"github.com/placementdesk/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionService_Create(t *testing.T) {
	ctx := context.Background()
	o := newOffice(t)
	bank := o.account(t, "Bank", models.AccountBank, "0")
	c := o.candidate(t, "Asha", "5000")

	valid := models.TransactionInput{
		Date: "2024-06-01", Type: models.TxIncome, Amount: d("1000"),
		FromEntityID: c.ID, FromEntityType: models.EntityCandidate,
		ToEntityID: bank.ID, ToEntityType: models.EntityAccount,
	}

	t.Run("records creator and timestamps", func(t *testing.T) {
		tx, err := o.transactions.Create(ctx, clerk, valid)
		require.NoError(t, err)
		assert.Equal(t, clerk.ID, tx.CreatedBy)
		assert.Equal(t, fixedNow, tx.CreatedAt)
		assert.False(t, tx.IsLocked)
	})

	t.Run("zero amount is accepted", func(t *testing.T) {
		in := valid
		in.Amount = d("0")
		_, err := o.transactions.Create(ctx, clerk, in)
		assert.NoError(t, err)
	})

	tests := []struct {
		name   string
		mutate func(in *models.TransactionInput)
	}{
		{"negative amount", func(in *models.TransactionInput) { in.Amount = d("-1") }},
		{"unreadable date", func(in *models.TransactionInput) { in.Date = "01/06/2024" }},
		{"unknown source", func(in *models.TransactionInput) { in.FromEntityID = "ghost" }},
		{"unknown destination", func(in *models.TransactionInput) { in.ToEntityType = models.EntityStaff }},
		{"same party on both sides", func(in *models.TransactionInput) {
			in.FromEntityID, in.FromEntityType = bank.ID, models.EntityAccount
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			_, err := o.transactions.Create(ctx, clerk, in)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	t.Run("accepts RFC3339 timestamps", func(t *testing.T) {
		in := valid
		in.Date = "2024-06-02T10:30:00Z"
		_, err := o.transactions.Create(ctx, clerk, in)
		assert.NoError(t, err)
	})
}

func TestTransactionService_Locking(t *testing.T) {
	ctx := context.Background()
	o := newOffice(t)
	bank := o.account(t, "Bank", models.AccountBank, "0")
	c := o.candidate(t, "Asha", "5000")
	tx := o.record(t, clerk, models.TxIncome, "1000", models.EntityCandidate, c.ID, models.EntityAccount, bank.ID)

	edit := models.TransactionInput{
		Date: "2024-06-01", Type: models.TxIncome, Amount: d("1200"),
		FromEntityID: c.ID, FromEntityType: models.EntityCandidate,
		ToEntityID: bank.ID, ToEntityType: models.EntityAccount,
	}

	locked, err := o.transactions.Lock(ctx, clerk, tx.ID)
	require.NoError(t, err)
	assert.True(t, locked.IsLocked)

	t.Run("staff cannot edit or delete locked", func(t *testing.T) {
		_, err := o.transactions.Update(ctx, clerk, tx.ID, edit)
		assert.ErrorIs(t, err, ErrTransactionLocked)
		assert.ErrorIs(t, o.transactions.Delete(ctx, clerk, tx.ID), ErrTransactionLocked)

		got, err := o.transactions.Get(ctx, tx.ID)
		require.NoError(t, err)
		assert.True(t, got.Amount.Equal(d("1000")))
	})

	t.Run("staff cannot unlock", func(t *testing.T) {
		_, err := o.transactions.Unlock(ctx, clerk, tx.ID)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("admin edits locked and it stays locked", func(t *testing.T) {
		updated, err := o.transactions.Update(ctx, admin, tx.ID, edit)
		require.NoError(t, err)
		assert.True(t, updated.IsLocked)
		assert.True(t, updated.Amount.Equal(d("1200")))
	})

	t.Run("admin unlocks then staff deletes", func(t *testing.T) {
		unlocked, err := o.transactions.Unlock(ctx, admin, tx.ID)
		require.NoError(t, err)
		assert.False(t, unlocked.IsLocked)

		require.NoError(t, o.transactions.Delete(ctx, clerk, tx.ID))
		_, err = o.transactions.Get(ctx, tx.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestTransactionService_List(t *testing.T) {
	ctx := context.Background()
	o := newOffice(t)
	bank := o.account(t, "Bank", models.AccountBank, "0")
	rent := o.account(t, "Landlord", models.AccountCreditor, "0")
	c := o.candidate(t, "Asha", "5000")

	in := func(date string, typ models.TransactionType, fromKind models.EntityKind, from string, toKind models.EntityKind, to string) models.TransactionInput {
		return models.TransactionInput{Date: date, Type: typ, Amount: d("10"),
			FromEntityID: from, FromEntityType: fromKind, ToEntityID: to, ToEntityType: toKind}
	}
	for _, tx := range []models.TransactionInput{
		in("2024-01-05", models.TxIncome, models.EntityCandidate, c.ID, models.EntityAccount, bank.ID),
		in("2024-03-01", models.TxExpense, models.EntityAccount, bank.ID, models.EntityAccount, rent.ID),
		in("2024-02-10T09:00:00Z", models.TxIncome, models.EntityCandidate, c.ID, models.EntityAccount, bank.ID),
	} {
		_, err := o.transactions.Create(ctx, clerk, tx)
		require.NoError(t, err)
	}

	all := o.transactions.List(ctx, models.TransactionFilter{})
	require.Len(t, all, 3)
	assert.Equal(t, "2024-03-01", all[0].Date)
	assert.Equal(t, "2024-01-05", all[2].Date)

	byCandidate := o.transactions.List(ctx, models.TransactionFilter{EntityID: c.ID, EntityType: models.EntityCandidate})
	assert.Len(t, byCandidate, 2)

	february := o.transactions.List(ctx, models.TransactionFilter{From: "2024-02-01", To: "2024-02-29"})
	require.Len(t, february, 1)
	assert.Equal(t, "2024-02-10T09:00:00Z", february[0].Date)

	expenses := o.transactions.List(ctx, models.TransactionFilter{Type: models.TxExpense})
	assert.Len(t, expenses, 1)
}
