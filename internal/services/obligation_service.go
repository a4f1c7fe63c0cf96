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

// ObligationService manages recurring monthly liabilities such as rent.
type ObligationService struct {
	state     LedgerState
	audit     *audit.Logger
	validator *ValidationHelper
	now       clock
}

func NewObligationService(state LedgerState, auditLogger *audit.Logger) *ObligationService {
	return &ObligationService{
		state:     state,
		audit:     auditLogger,
		validator: NewValidationHelper(),
		now:       time.Now,
	}
}

func (s *ObligationService) List(ctx context.Context) []models.Obligation {
	return s.state.Snapshot().Obligations
}

func (s *ObligationService) Get(ctx context.Context, id string) (models.Obligation, error) {
	o, ok := s.state.Snapshot().Obligation(id)
	if !ok {
		return models.Obligation{}, fmt.Errorf("obligation %s: %w", id, ErrNotFound)
	}
	return o, nil
}

func (s *ObligationService) validate(snap *models.Snapshot, in *models.ObligationInput) error {
	in.Name = clean(in.Name)
	if in.EndDate != nil && *in.EndDate == "" {
		in.EndDate = nil
	}
	if err := s.validator.ValidateStruct(in); err != nil {
		return err
	}
	if in.MonthlyAmount.IsNegative() {
		return fmt.Errorf("%w: monthly amount must not be negative", ErrInvalidInput)
	}
	if in.EndDate != nil && *in.EndDate < in.StartDate {
		return fmt.Errorf("%w: end date is before start date", ErrInvalidInput)
	}
	if in.PayeeType != models.EntityAccount {
		return fmt.Errorf("%w: obligations are paid to accounts; staff salaries are tracked by payroll", ErrInvalidInput)
	}
	if !snap.Exists(in.PayeeID, in.PayeeType) {
		return fmt.Errorf("%w: unknown payee %s %s", ErrInvalidInput, in.PayeeType, in.PayeeID)
	}
	return nil
}

func (s *ObligationService) Create(ctx context.Context, actor Actor, in models.ObligationInput) (models.Obligation, error) {
	var created models.Obligation
	err := s.state.Apply(ctx, func(snap *models.Snapshot) ([]store.Mutation, error) {
		if err := s.validate(snap, &in); err != nil {
			return nil, err
		}
		now := s.now()
		created = models.Obligation{
			ID:            uuid.NewString(),
			Name:          in.Name,
			PayeeID:       in.PayeeID,
			PayeeType:     in.PayeeType,
			MonthlyAmount: in.MonthlyAmount,
			StartDate:     in.StartDate,
			DueDay:        in.DueDay,
			EndDate:       in.EndDate,
			IsActive:      true,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		return []store.Mutation{store.PutObligation(snap, created)}, nil
	})
	if err != nil {
		return models.Obligation{}, err
	}

	log.Printf("[OBLIGATION] Created %q paying %s %s by %s", created.Name, created.MonthlyAmount, created.PayeeID, actor.ID)
	return created, nil
}

func (s *ObligationService) Update(ctx context.Context, actor Actor, id string, in models.ObligationInput) (models.Obligation, error) {
	var updated models.Obligation
	err := s.state.Apply(ctx, func(snap *models.Snapshot) ([]store.Mutation, error) {
		current, ok := snap.Obligation(id)
		if !ok {
			return nil, fmt.Errorf("obligation %s: %w", id, ErrNotFound)
		}
		if err := s.validate(snap, &in); err != nil {
			return nil, err
		}
		updated = current
		updated.Name = in.Name
		updated.PayeeID = in.PayeeID
		updated.PayeeType = in.PayeeType
		updated.MonthlyAmount = in.MonthlyAmount
		updated.StartDate = in.StartDate
		updated.DueDay = in.DueDay
		updated.EndDate = in.EndDate
		updated.UpdatedAt = s.now()
		return []store.Mutation{store.PutObligation(snap, updated)}, nil
	})
	if err != nil {
		return models.Obligation{}, err
	}

	log.Printf("[OBLIGATION] Updated %s by %s", id, actor.ID)
	return updated, nil
}

func (s *ObligationService) SetActive(ctx context.Context, actor Actor, id string, active bool) (models.Obligation, error) {
	var updated models.Obligation
	err := s.state.Apply(ctx, func(snap *models.Snapshot) ([]store.Mutation, error) {
		current, ok := snap.Obligation(id)
		if !ok {
			return nil, fmt.Errorf("obligation %s: %w", id, ErrNotFound)
		}
		updated = current
		updated.IsActive = active
		updated.UpdatedAt = s.now()
		return []store.Mutation{store.PutObligation(snap, updated)}, nil
	})
	if err != nil {
		return models.Obligation{}, err
	}
	return updated, nil
}

func (s *ObligationService) Delete(ctx context.Context, actor Actor, id string) error {
	err := s.state.Apply(ctx, func(snap *models.Snapshot) ([]store.Mutation, error) {
		if _, ok := snap.Obligation(id); !ok {
			return nil, fmt.Errorf("obligation %s: %w", id, ErrNotFound)
		}
		return []store.Mutation{store.DeleteObligation(snap, id)}, nil
	})
	if err != nil {
		return err
	}

	s.audit.LogOperation("OBLIGATION_DELETE", actor.ID, "Obligation", id, "")
	return nil
}

// Arrears replays one obligation as of now.
func (s *ObligationService) Arrears(ctx context.Context, id string) (models.Arrears, error) {
	snap := s.state.Snapshot()
	o, ok := snap.Obligation(id)
	if !ok {
		return models.Arrears{}, fmt.Errorf("obligation %s: %w", id, ErrNotFound)
	}
	a, err := ledger.ObligationArrears(o, snap.Transactions, s.now())
	if err != nil {
		return models.Arrears{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return a, nil
}

// AllArrears replays every active obligation. Records with unreadable dates
// are logged and skipped.
func (s *ObligationService) AllArrears(ctx context.Context) []models.Arrears {
	snap := s.state.Snapshot()
	now := s.now()
	out := make([]models.Arrears, 0, len(snap.Obligations))
	for _, o := range snap.Obligations {
		if !o.IsActive {
			continue
		}
		a, err := ledger.ObligationArrears(o, snap.Transactions, now)
		if err != nil {
			log.Printf("[OBLIGATION] Skipping %s: %v", o.ID, err)
			continue
		}
		out = append(out, a)
	}
	return out
}
