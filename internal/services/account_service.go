package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/placementdesk/backend/internal/audit"
	"github.com/placementdesk/backend/internal/ledger"
	"github.com/placementdesk/backend/internal/models"
	"github.com/placementdesk/backend/internal/store"
)

type AccountService struct {
	state     LedgerState
	audit     *audit.Logger
	validator *ValidationHelper
	now       clock
}

func NewAccountService(state LedgerState, auditLogger *audit.Logger) *AccountService {
	return &AccountService{
		state:     state,
		audit:     auditLogger,
		validator: NewValidationHelper(),
		now:       time.Now,
	}
}

// List returns every account with its balance.
func (s *AccountService) List(ctx context.Context) []models.AccountView {
	snap := s.state.Snapshot()
	views := make([]models.AccountView, 0, len(snap.Accounts))
	for _, a := range snap.Accounts {
		views = append(views, models.AccountView{Account: a, Balance: ledger.AccountBalance(a, snap.Transactions)})
	}
	return views
}

func (s *AccountService) Get(ctx context.Context, id string) (models.AccountView, error) {
	snap := s.state.Snapshot()
	a, ok := snap.Account(id)
	if !ok {
		return models.AccountView{}, fmt.Errorf("account %s: %w", id, ErrNotFound)
	}
	return models.AccountView{Account: a, Balance: ledger.AccountBalance(a, snap.Transactions)}, nil
}

func (s *AccountService) Create(ctx context.Context, actor Actor, in models.AccountInput) (models.Account, error) {
	in.Name = clean(in.Name)
	if err := s.validator.ValidateStruct(&in); err != nil {
		return models.Account{}, err
	}

	now := s.now()
	account := models.Account{
		ID:             uuid.NewString(),
		Name:           in.Name,
		Type:           in.Type,
		OpeningBalance: in.OpeningBalance,
		Notes:          clean(in.Notes),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	err := s.state.Apply(ctx, func(snap *models.Snapshot) ([]store.Mutation, error) {
		return []store.Mutation{store.PutAccount(snap, account)}, nil
	})
	if err != nil {
		return models.Account{}, err
	}

	log.Printf("[ACCOUNT] Created %s account %q (%s) by %s", account.Type, account.Name, account.ID, actor.ID)
	return account, nil
}

// Update edits an account. The classification of a system account is fixed.
func (s *AccountService) Update(ctx context.Context, actor Actor, id string, in models.AccountInput) (models.Account, error) {
	in.Name = clean(in.Name)
	if err := s.validator.ValidateStruct(&in); err != nil {
		return models.Account{}, err
	}

	var updated models.Account
	err := s.state.Apply(ctx, func(snap *models.Snapshot) ([]store.Mutation, error) {
		current, ok := snap.Account(id)
		if !ok {
			return nil, fmt.Errorf("account %s: %w", id, ErrNotFound)
		}
		if current.IsSystem && current.Type != in.Type {
			return nil, fmt.Errorf("%w: the type of a system account cannot change", ErrInvalidInput)
		}
		updated = current
		updated.Name = in.Name
		updated.Type = in.Type
		updated.OpeningBalance = in.OpeningBalance
		updated.Notes = clean(in.Notes)
		updated.UpdatedAt = s.now()
		return []store.Mutation{store.PutAccount(snap, updated)}, nil
	})
	if err != nil {
		return models.Account{}, err
	}

	log.Printf("[ACCOUNT] Updated account %s by %s", id, actor.ID)
	return updated, nil
}

// Delete removes an account that is neither a system account nor referenced
// by any transaction or obligation.
func (s *AccountService) Delete(ctx context.Context, actor Actor, id string) error {
	err := s.state.Apply(ctx, func(snap *models.Snapshot) ([]store.Mutation, error) {
		account, ok := snap.Account(id)
		if !ok {
			return nil, fmt.Errorf("account %s: %w", id, ErrNotFound)
		}
		if account.IsSystem {
			return nil, ErrSystemAccount
		}
		if snap.Referenced(id, models.EntityAccount) {
			return nil, fmt.Errorf("account %q: %w", account.Name, ErrEntityReferenced)
		}
		return []store.Mutation{store.DeleteAccount(snap, id)}, nil
	})
	if err != nil {
		log.Printf("[ACCOUNT] Delete of %s refused: %v", id, err)
		return err
	}

	s.audit.LogOperation("ACCOUNT_DELETE", actor.ID, string(models.EntityAccount), id, "")
	return nil
}
