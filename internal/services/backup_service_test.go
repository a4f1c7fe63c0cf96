package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/placementdesk/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupService_RoundTrip(t *testing.T) {
	ctx := context.Background()
	source := newOffice(t)
	bank := source.account(t, "Bank", models.AccountBank, "1500.75")
	c := source.candidate(t, "Asha", "12000")
	tx := source.record(t, clerk, models.TxIncome, "3000.25", models.EntityCandidate, c.ID, models.EntityAccount, bank.ID)
	_, err := source.transactions.Lock(ctx, clerk, tx.ID)
	require.NoError(t, err)
	_, err = source.staff.Create(ctx, admin, staffInput("Owner", "owner@example.com", models.RoleAdmin))
	require.NoError(t, err)

	exported := source.backups.Export(ctx)
	assert.Equal(t, models.SnapshotVersion, exported.Version)
	assert.Equal(t, fixedNow, exported.ExportedAt)
	raw, err := json.Marshal(exported)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"amount":3000.25`)

	target := newOffice(t)
	result, err := target.backups.Import(ctx, admin, raw)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Transactions)
	assert.Empty(t, result.Warnings)

	again, err := json.Marshal(target.backups.Export(ctx))
	require.NoError(t, err)
	assert.JSONEq(t, string(raw), string(again))

	got, err := target.reports.Balance(ctx, bank.ID, models.EntityAccount)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(d("4501.00")))
}

func TestBackupService_Import(t *testing.T) {
	ctx := context.Background()

	t.Run("staff cannot restore", func(t *testing.T) {
		o := newOffice(t)
		_, err := o.backups.Import(ctx, clerk, []byte(`{}`))
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("malformed json", func(t *testing.T) {
		o := newOffice(t)
		_, err := o.backups.Import(ctx, admin, []byte(`{"accounts":`))
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("duplicate ids are refused and state kept", func(t *testing.T) {
		o := newOffice(t)
		o.account(t, "Keep me", models.AccountCash, "0")
		raw := `{"version":1,"accounts":[
			{"id":"a","name":"A","type":"Bank","openingBalance":0},
			{"id":"a","name":"B","type":"Cash","openingBalance":0}]}`

		_, err := o.backups.Import(ctx, admin, []byte(raw))
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Len(t, o.state.Snapshot().Accounts, 1)
	})

	t.Run("unknown account type", func(t *testing.T) {
		o := newOffice(t)
		raw := `{"version":1,"accounts":[{"id":"a","name":"A","type":"Savings","openingBalance":0}]}`
		_, err := o.backups.Import(ctx, admin, []byte(raw))
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("obligation paid to staff", func(t *testing.T) {
		o := newOffice(t)
		raw := `{"version":1,
			"staff":[{"id":"s1","name":"Owner","email":"owner@example.com","role":"admin","isActive":true}],
			"obligations":[{"id":"o1","name":"Owner salary","payeeId":"s1","payeeType":"Staff",
				"monthlyAmount":20000,"startDate":"2024-01-01","dueDay":31,"isActive":true}]}`
		_, err := o.backups.Import(ctx, admin, []byte(raw))
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("newer version", func(t *testing.T) {
		o := newOffice(t)
		_, err := o.backups.Import(ctx, admin, []byte(`{"version":99}`))
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("suspicious data imports with warnings", func(t *testing.T) {
		o := newOffice(t)
		raw := `{"version":1,
			"accounts":[{"id":"bank","name":"Bank","type":"Bank","openingBalance":0}],
			"transactions":[{"id":"t1","date":"2024-01-01","type":"Income","amount":-50,
				"fromEntityId":"gone","fromEntityType":"Candidate","toEntityId":"bank","toEntityType":"Account","isLocked":false}]}`

		result, err := o.backups.Import(ctx, admin, []byte(raw))
		require.NoError(t, err)
		assert.Len(t, result.Warnings, 3)

		bal, err := o.reports.Balance(ctx, "bank", models.EntityAccount)
		require.NoError(t, err)
		assert.True(t, bal.Balance.Equal(d("-50")))
	})
}
