package services

import (
	"context"
	"io"
	"log"
	"path/filepath"
	"testing"
	"time"

	"github.com/placementdesk/backend/internal/audit"
	"github.com/placementdesk/backend/internal/models"
	"github.com/placementdesk/backend/internal/store"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

var (
	admin = Actor{ID: "admin-1", Role: models.RoleAdmin}
	clerk = Actor{ID: "clerk-1", Role: models.RoleStaff}

	fixedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func fixedClock() time.Time { return fixedNow }

func setupAuthConfig() {
	viper.Set("argon2.salt_length", 16)
	viper.Set("argon2.time", 1)
	viper.Set("argon2.memory", 8*1024)
	viper.Set("argon2.threads", 1)
	viper.Set("argon2.key_length", 32)
	viper.Set("jwt.secret_key", "test-secret")
	viper.Set("jwt.expiry_hours", 24)
}

func quietAudit() *audit.Logger {
	return audit.NewLogger(log.New(io.Discard, "", 0))
}

func newTestState(t *testing.T) *store.State {
	t.Helper()
	docs, err := store.OpenFileDocuments(filepath.Join(t.TempDir(), "ledger.json"))
	require.NoError(t, err)
	return store.NewState(docs, nil)
}

// office wires every service over one state with a fixed clock.
type office struct {
	state        *store.State
	accounts     *AccountService
	candidates   *CandidateService
	staff        *StaffService
	transactions *TransactionService
	obligations  *ObligationService
	reports      *ReportService
	backups      *BackupService
}

func newOffice(t *testing.T) *office {
	t.Helper()
	setupAuthConfig()
	state := newTestState(t)
	a := quietAudit()
	o := &office{
		state:        state,
		accounts:     NewAccountService(state, a),
		candidates:   NewCandidateService(state, a),
		staff:        NewStaffService(state, a),
		transactions: NewTransactionService(state, a),
		obligations:  NewObligationService(state, a),
		reports:      NewReportService(state, "INR"),
		backups:      NewBackupService(state, a),
	}
	o.accounts.now = fixedClock
	o.candidates.now = fixedClock
	o.staff.now = fixedClock
	o.transactions.now = fixedClock
	o.obligations.now = fixedClock
	o.reports.now = fixedClock
	o.backups.now = fixedClock
	return o
}

func (o *office) account(t *testing.T, name string, kind models.AccountKind, opening string) models.Account {
	t.Helper()
	a, err := o.accounts.Create(context.Background(), admin, models.AccountInput{
		Name: name, Type: kind, OpeningBalance: d(opening),
	})
	require.NoError(t, err)
	return a
}

func (o *office) candidate(t *testing.T, name, agreed string) models.Candidate {
	t.Helper()
	c, err := o.candidates.Create(context.Background(), clerk, models.CandidateInput{
		Name: name, AgreedAmount: d(agreed),
	})
	require.NoError(t, err)
	return c
}

func (o *office) record(t *testing.T, actor Actor, typ models.TransactionType, amount string,
	fromKind models.EntityKind, fromID string, toKind models.EntityKind, toID string) models.Transaction {
	t.Helper()
	tx, err := o.transactions.Create(context.Background(), actor, models.TransactionInput{
		Date: "2024-06-01", Type: typ, Amount: d(amount),
		FromEntityID: fromID, FromEntityType: fromKind,
		ToEntityID: toID, ToEntityType: toKind,
	})
	require.NoError(t, err)
	return tx
}
