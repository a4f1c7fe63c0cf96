// Package services holds the business operations of the ledger. Every read is
// computed from one snapshot of the application state through the ledger
// package; every write goes through LedgerState.Apply with its guard.
package services

import (
	"context"
	"strings"
	"time"

	"github.com/placementdesk/backend/internal/models"
	"github.com/placementdesk/backend/internal/store"
)

// LedgerState is the application state the services read and mutate.
type LedgerState interface {
	Snapshot() *models.Snapshot
	Apply(ctx context.Context, fn func(snap *models.Snapshot) ([]store.Mutation, error)) error
}

type clock func() time.Time

func clean(s string) string { return strings.TrimSpace(s) }
