package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/placementdesk/backend/internal/audit"
	"github.com/placementdesk/backend/internal/ledger"
	"github.com/placementdesk/backend/internal/models"
	"github.com/placementdesk/backend/internal/store"
)

type TransactionService struct {
	state     LedgerState
	audit     *audit.Logger
	validator *ValidationHelper
	now       clock
}

func NewTransactionService(state LedgerState, auditLogger *audit.Logger) *TransactionService {
	return &TransactionService{
		state:     state,
		audit:     auditLogger,
		validator: NewValidationHelper(),
		now:       time.Now,
	}
}

// List returns the matching transactions, newest first.
func (s *TransactionService) List(ctx context.Context, filter models.TransactionFilter) []models.Transaction {
	snap := s.state.Snapshot()
	out := make([]models.Transaction, 0, len(snap.Transactions))
	for _, t := range snap.Transactions {
		if filter.Match(t) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (s *TransactionService) Get(ctx context.Context, id string) (models.Transaction, error) {
	t, ok := s.state.Snapshot().Transaction(id)
	if !ok {
		return models.Transaction{}, fmt.Errorf("transaction %s: %w", id, ErrNotFound)
	}
	return t, nil
}

// validate checks an input and that both parties are registered.
func (s *TransactionService) validate(snap *models.Snapshot, in *models.TransactionInput) error {
	in.Description = clean(in.Description)
	in.Reference = clean(in.Reference)
	if err := s.validator.ValidateStruct(in); err != nil {
		return err
	}
	if in.Amount.IsNegative() {
		return fmt.Errorf("%w: amount must not be negative", ErrInvalidInput)
	}
	if _, err := ledger.ParseDate(in.Date); err != nil {
		return fmt.Errorf("%w: date %q is not an ISO-8601 date", ErrInvalidInput, in.Date)
	}
	if in.FromEntityID == in.ToEntityID && in.FromEntityType == in.ToEntityType {
		return fmt.Errorf("%w: source and destination are the same", ErrInvalidInput)
	}
	if !snap.Exists(in.FromEntityID, in.FromEntityType) {
		return fmt.Errorf("%w: unknown source %s %s", ErrInvalidInput, in.FromEntityType, in.FromEntityID)
	}
	if !snap.Exists(in.ToEntityID, in.ToEntityType) {
		return fmt.Errorf("%w: unknown destination %s %s", ErrInvalidInput, in.ToEntityType, in.ToEntityID)
	}
	return nil
}

func (s *TransactionService) Create(ctx context.Context, actor Actor, in models.TransactionInput) (models.Transaction, error) {
	var created models.Transaction
	err := s.state.Apply(ctx, func(snap *models.Snapshot) ([]store.Mutation, error) {
		if err := s.validate(snap, &in); err != nil {
			return nil, err
		}
		now := s.now()
		created = models.Transaction{
			ID:             uuid.NewString(),
			Date:           in.Date,
			Type:           in.Type,
			Amount:         in.Amount,
			FromEntityID:   in.FromEntityID,
			FromEntityType: in.FromEntityType,
			ToEntityID:     in.ToEntityID,
			ToEntityType:   in.ToEntityType,
			Description:    in.Description,
			Reference:      in.Reference,
			CreatedBy:      actor.ID,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		return []store.Mutation{store.PutTransaction(snap, created)}, nil
	})
	if err != nil {
		return models.Transaction{}, err
	}

	log.Printf("[TXN] Recorded %s %s from %s:%s to %s:%s",
		created.Type, created.Amount, created.FromEntityType, created.FromEntityID, created.ToEntityType, created.ToEntityID)
	s.audit.LogTransaction("CREATE", actor.ID, created)
	return created, nil
}

// checkLock refuses changes to a locked transaction unless the actor is an
// administrator.
func checkLock(actor Actor, t models.Transaction) error {
	if t.IsLocked && !actor.IsAdmin() {
		return fmt.Errorf("transaction %s: %w", t.ID, ErrTransactionLocked)
	}
	return nil
}

func (s *TransactionService) Update(ctx context.Context, actor Actor, id string, in models.TransactionInput) (models.Transaction, error) {
	var updated models.Transaction
	var wasLocked bool
	err := s.state.Apply(ctx, func(snap *models.Snapshot) ([]store.Mutation, error) {
		current, ok := snap.Transaction(id)
		if !ok {
			return nil, fmt.Errorf("transaction %s: %w", id, ErrNotFound)
		}
		if err := checkLock(actor, current); err != nil {
			return nil, err
		}
		if err := s.validate(snap, &in); err != nil {
			return nil, err
		}
		wasLocked = current.IsLocked
		updated = current
		updated.Date = in.Date
		updated.Type = in.Type
		updated.Amount = in.Amount
		updated.FromEntityID = in.FromEntityID
		updated.FromEntityType = in.FromEntityType
		updated.ToEntityID = in.ToEntityID
		updated.ToEntityType = in.ToEntityType
		updated.Description = in.Description
		updated.Reference = in.Reference
		updated.UpdatedAt = s.now()
		return []store.Mutation{store.PutTransaction(snap, updated)}, nil
	})
	if err != nil {
		if isLockError(err) {
			s.audit.LogError("TRANSACTION_UPDATE", actor.ID, id, err)
		}
		return models.Transaction{}, err
	}

	action := "UPDATE"
	if wasLocked {
		action = "UPDATE_LOCKED"
	}
	s.audit.LogTransaction(action, actor.ID, updated)
	return updated, nil
}

func (s *TransactionService) Delete(ctx context.Context, actor Actor, id string) error {
	var removed models.Transaction
	err := s.state.Apply(ctx, func(snap *models.Snapshot) ([]store.Mutation, error) {
		current, ok := snap.Transaction(id)
		if !ok {
			return nil, fmt.Errorf("transaction %s: %w", id, ErrNotFound)
		}
		if err := checkLock(actor, current); err != nil {
			return nil, err
		}
		removed = current
		return []store.Mutation{store.DeleteTransaction(snap, id)}, nil
	})
	if err != nil {
		if isLockError(err) {
			s.audit.LogError("TRANSACTION_DELETE", actor.ID, id, err)
		}
		return err
	}

	log.Printf("[TXN] Deleted %s by %s", id, actor.ID)
	s.audit.LogTransaction("DELETE", actor.ID, removed)
	return nil
}

// Lock freezes a transaction. Any staff member may lock.
func (s *TransactionService) Lock(ctx context.Context, actor Actor, id string) (models.Transaction, error) {
	return s.setLocked(ctx, actor, id, true)
}

// Unlock is reserved for administrators.
func (s *TransactionService) Unlock(ctx context.Context, actor Actor, id string) (models.Transaction, error) {
	if !actor.IsAdmin() {
		return models.Transaction{}, ErrForbidden
	}
	return s.setLocked(ctx, actor, id, false)
}

func (s *TransactionService) setLocked(ctx context.Context, actor Actor, id string, locked bool) (models.Transaction, error) {
	var updated models.Transaction
	changed := false
	err := s.state.Apply(ctx, func(snap *models.Snapshot) ([]store.Mutation, error) {
		current, ok := snap.Transaction(id)
		if !ok {
			return nil, fmt.Errorf("transaction %s: %w", id, ErrNotFound)
		}
		updated = current
		if current.IsLocked == locked {
			return nil, nil
		}
		changed = true
		updated.IsLocked = locked
		updated.UpdatedAt = s.now()
		return []store.Mutation{store.PutTransaction(snap, updated)}, nil
	})
	if err != nil {
		return models.Transaction{}, err
	}

	if changed {
		action := "LOCK"
		if !locked {
			action = "UNLOCK"
		}
		s.audit.LogTransaction(action, actor.ID, updated)
	}
	return updated, nil
}
