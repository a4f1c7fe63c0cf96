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

type CandidateService struct {
	state     LedgerState
	audit     *audit.Logger
	validator *ValidationHelper
	now       clock
}

func NewCandidateService(state LedgerState, auditLogger *audit.Logger) *CandidateService {
	return &CandidateService{
		state:     state,
		audit:     auditLogger,
		validator: NewValidationHelper(),
		now:       time.Now,
	}
}

// List returns candidate fee summaries. Inactive candidates are included only
// when asked for.
func (s *CandidateService) List(ctx context.Context, includeInactive bool) []models.CandidateSummary {
	snap := s.state.Snapshot()
	out := make([]models.CandidateSummary, 0, len(snap.Candidates))
	for _, c := range snap.Candidates {
		if !c.IsActive && !includeInactive {
			continue
		}
		out = append(out, ledger.Summarize(c, snap.Transactions))
	}
	return out
}

func (s *CandidateService) Get(ctx context.Context, id string) (models.CandidateSummary, error) {
	snap := s.state.Snapshot()
	c, ok := snap.Candidate(id)
	if !ok {
		return models.CandidateSummary{}, fmt.Errorf("candidate %s: %w", id, ErrNotFound)
	}
	return ledger.Summarize(c, snap.Transactions), nil
}

func (s *CandidateService) validate(in *models.CandidateInput) error {
	in.Name = clean(in.Name)
	in.Email = clean(in.Email)
	if err := s.validator.ValidateStruct(in); err != nil {
		return err
	}
	if in.AgreedAmount.IsNegative() {
		return fmt.Errorf("%w: agreed amount must not be negative", ErrInvalidInput)
	}
	return nil
}

func (s *CandidateService) Create(ctx context.Context, actor Actor, in models.CandidateInput) (models.Candidate, error) {
	if err := s.validate(&in); err != nil {
		return models.Candidate{}, err
	}

	now := s.now()
	c := models.Candidate{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Phone:        clean(in.Phone),
		Email:        in.Email,
		Course:       clean(in.Course),
		AgreedAmount: in.AgreedAmount,
		EnrolledOn:   in.EnrolledOn,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err := s.state.Apply(ctx, func(snap *models.Snapshot) ([]store.Mutation, error) {
		return []store.Mutation{store.PutCandidate(snap, c)}, nil
	})
	if err != nil {
		return models.Candidate{}, err
	}

	log.Printf("[CANDIDATE] Enrolled %q (%s) by %s", c.Name, c.ID, actor.ID)
	return c, nil
}

func (s *CandidateService) Update(ctx context.Context, actor Actor, id string, in models.CandidateInput) (models.Candidate, error) {
	if err := s.validate(&in); err != nil {
		return models.Candidate{}, err
	}

	var updated models.Candidate
	err := s.state.Apply(ctx, func(snap *models.Snapshot) ([]store.Mutation, error) {
		current, ok := snap.Candidate(id)
		if !ok {
			return nil, fmt.Errorf("candidate %s: %w", id, ErrNotFound)
		}
		updated = current
		updated.Name = in.Name
		updated.Phone = clean(in.Phone)
		updated.Email = in.Email
		updated.Course = clean(in.Course)
		updated.AgreedAmount = in.AgreedAmount
		updated.EnrolledOn = in.EnrolledOn
		updated.UpdatedAt = s.now()
		return []store.Mutation{store.PutCandidate(snap, updated)}, nil
	})
	if err != nil {
		return models.Candidate{}, err
	}

	log.Printf("[CANDIDATE] Updated %s by %s", id, actor.ID)
	return updated, nil
}

// SetActive is the soft delete used once a candidate has financial history.
func (s *CandidateService) SetActive(ctx context.Context, actor Actor, id string, active bool) (models.Candidate, error) {
	var updated models.Candidate
	err := s.state.Apply(ctx, func(snap *models.Snapshot) ([]store.Mutation, error) {
		current, ok := snap.Candidate(id)
		if !ok {
			return nil, fmt.Errorf("candidate %s: %w", id, ErrNotFound)
		}
		if current.IsActive == active {
			updated = current
			return nil, nil
		}
		updated = current
		updated.IsActive = active
		updated.UpdatedAt = s.now()
		return []store.Mutation{store.PutCandidate(snap, updated)}, nil
	})
	if err != nil {
		return models.Candidate{}, err
	}

	log.Printf("[CANDIDATE] Set %s active=%t by %s", id, active, actor.ID)
	return updated, nil
}

// Delete removes a candidate without financial history.
func (s *CandidateService) Delete(ctx context.Context, actor Actor, id string) error {
	err := s.state.Apply(ctx, func(snap *models.Snapshot) ([]store.Mutation, error) {
		c, ok := snap.Candidate(id)
		if !ok {
			return nil, fmt.Errorf("candidate %s: %w", id, ErrNotFound)
		}
		if snap.Referenced(id, models.EntityCandidate) {
			return nil, fmt.Errorf("candidate %q: %w", c.Name, ErrEntityReferenced)
		}
		return []store.Mutation{store.DeleteCandidate(snap, id)}, nil
	})
	if err != nil {
		log.Printf("[CANDIDATE] Delete of %s refused: %v", id, err)
		return err
	}

	s.audit.LogOperation("CANDIDATE_DELETE", actor.ID, string(models.EntityCandidate), id, "")
	return nil
}
