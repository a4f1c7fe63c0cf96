package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/placementdesk/backend/internal/audit"
	"github.com/placementdesk/backend/internal/config"
	"github.com/placementdesk/backend/internal/models"
	"github.com/placementdesk/backend/internal/store"
	"github.com/shopspring/decimal"
)

type StaffService struct {
	state     LedgerState
	audit     *audit.Logger
	validator *ValidationHelper
	now       clock
}

func NewStaffService(state LedgerState, auditLogger *audit.Logger) *StaffService {
	return &StaffService{
		state:     state,
		audit:     auditLogger,
		validator: NewValidationHelper(),
		now:       time.Now,
	}
}

// List returns every staff member without credentials.
func (s *StaffService) List(ctx context.Context) []models.Staff {
	snap := s.state.Snapshot()
	out := make([]models.Staff, 0, len(snap.Staff))
	for _, st := range snap.Staff {
		out = append(out, st.Public())
	}
	return out
}

func (s *StaffService) Get(ctx context.Context, id string) (models.Staff, error) {
	st, ok := s.state.Snapshot().StaffMember(id)
	if !ok {
		return models.Staff{}, fmt.Errorf("staff %s: %w", id, ErrNotFound)
	}
	return st.Public(), nil
}

// ResolveActor maps a token subject to the current staff record. Unknown or
// inactive staff are rejected; the role always comes from the record.
func (s *StaffService) ResolveActor(ctx context.Context, id string) (Actor, error) {
	st, ok := s.state.Snapshot().StaffMember(id)
	if !ok {
		return Actor{}, fmt.Errorf("staff %s: %w", id, ErrInvalidCredential)
	}
	if !st.IsActive {
		return Actor{}, fmt.Errorf("staff %s is inactive: %w", id, ErrInvalidCredential)
	}
	return Actor{ID: st.ID, Role: st.Role}, nil
}

// byEmail finds a staff member including the password hash.
func (s *StaffService) byEmail(email string) (models.Staff, bool) {
	email = strings.ToLower(clean(email))
	for _, st := range s.state.Snapshot().Staff {
		if strings.ToLower(st.Email) == email {
			return st, true
		}
	}
	return models.Staff{}, false
}

func emailTaken(snap *models.Snapshot, email, exceptID string) bool {
	for _, st := range snap.Staff {
		if st.ID != exceptID && strings.EqualFold(st.Email, email) {
			return true
		}
	}
	return false
}

func (s *StaffService) validate(in *models.StaffInput) error {
	in.Name = clean(in.Name)
	in.Email = strings.ToLower(clean(in.Email))
	if err := s.validator.ValidateStruct(in); err != nil {
		return err
	}
	if in.MonthlySalary.IsNegative() {
		return fmt.Errorf("%w: monthly salary must not be negative", ErrInvalidInput)
	}
	if in.LeavingDate != nil && *in.LeavingDate == "" {
		in.LeavingDate = nil
	}
	if in.LeavingDate != nil && in.JoiningDate != "" && *in.LeavingDate < in.JoiningDate {
		return fmt.Errorf("%w: leaving date is before joining date", ErrInvalidInput)
	}
	return nil
}

// Create registers a staff user. Only administrators may add users.
func (s *StaffService) Create(ctx context.Context, actor Actor, in models.StaffInput) (models.Staff, error) {
	if !actor.IsAdmin() {
		return models.Staff{}, ErrForbidden
	}
	if err := s.validate(&in); err != nil {
		return models.Staff{}, err
	}
	if in.Password == "" {
		return models.Staff{}, fmt.Errorf("%w: password is required", ErrInvalidInput)
	}
	hash, err := hashPassword(in.Password)
	if err != nil {
		return models.Staff{}, fmt.Errorf("hashing password: %w", err)
	}

	now := s.now()
	member := models.Staff{
		ID:            uuid.NewString(),
		Name:          in.Name,
		Email:         in.Email,
		Phone:         clean(in.Phone),
		Role:          in.Role,
		PasswordHash:  hash,
		MonthlySalary: in.MonthlySalary,
		SalaryDueDay:  in.SalaryDueDay,
		JoiningDate:   in.JoiningDate,
		LeavingDate:   in.LeavingDate,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	err = s.state.Apply(ctx, func(snap *models.Snapshot) ([]store.Mutation, error) {
		if emailTaken(snap, member.Email, "") {
			return nil, ErrEmailTaken
		}
		return []store.Mutation{store.PutStaff(snap, member)}, nil
	})
	if err != nil {
		return models.Staff{}, err
	}

	log.Printf("[STAFF] Created %s user %s (%s) by %s", member.Role, member.Email, member.ID, actor.ID)
	return member.Public(), nil
}

// Update edits a staff member. Staff may edit their own profile but not their
// role or salary terms; administrators may edit anyone.
func (s *StaffService) Update(ctx context.Context, actor Actor, id string, in models.StaffInput) (models.Staff, error) {
	if !actor.IsAdmin() && actor.ID != id {
		return models.Staff{}, ErrForbidden
	}
	if err := s.validate(&in); err != nil {
		return models.Staff{}, err
	}
	var hash string
	if in.Password != "" {
		h, err := hashPassword(in.Password)
		if err != nil {
			return models.Staff{}, fmt.Errorf("hashing password: %w", err)
		}
		hash = h
	}

	var updated models.Staff
	err := s.state.Apply(ctx, func(snap *models.Snapshot) ([]store.Mutation, error) {
		current, ok := snap.StaffMember(id)
		if !ok {
			return nil, fmt.Errorf("staff %s: %w", id, ErrNotFound)
		}
		if emailTaken(snap, in.Email, id) {
			return nil, ErrEmailTaken
		}
		if !actor.IsAdmin() && (in.Role != current.Role ||
			!in.MonthlySalary.Equal(current.MonthlySalary) || in.SalaryDueDay != current.SalaryDueDay) {
			return nil, ErrForbidden
		}
		updated = current
		updated.Name = in.Name
		updated.Email = in.Email
		updated.Phone = clean(in.Phone)
		updated.Role = in.Role
		updated.MonthlySalary = in.MonthlySalary
		updated.SalaryDueDay = in.SalaryDueDay
		updated.JoiningDate = in.JoiningDate
		updated.LeavingDate = in.LeavingDate
		if hash != "" {
			updated.PasswordHash = hash
		}
		updated.UpdatedAt = s.now()
		return []store.Mutation{store.PutStaff(snap, updated)}, nil
	})
	if err != nil {
		return models.Staff{}, err
	}

	log.Printf("[STAFF] Updated %s by %s", id, actor.ID)
	return updated.Public(), nil
}

// SetActive enables or disables a login without touching payroll history.
func (s *StaffService) SetActive(ctx context.Context, actor Actor, id string, active bool) (models.Staff, error) {
	if !actor.IsAdmin() {
		return models.Staff{}, ErrForbidden
	}
	if actor.ID == id && !active {
		return models.Staff{}, fmt.Errorf("%w: you cannot deactivate yourself", ErrInvalidInput)
	}
	var updated models.Staff
	err := s.state.Apply(ctx, func(snap *models.Snapshot) ([]store.Mutation, error) {
		current, ok := snap.StaffMember(id)
		if !ok {
			return nil, fmt.Errorf("staff %s: %w", id, ErrNotFound)
		}
		updated = current
		updated.IsActive = active
		updated.UpdatedAt = s.now()
		return []store.Mutation{store.PutStaff(snap, updated)}, nil
	})
	if err != nil {
		return models.Staff{}, err
	}
	log.Printf("[STAFF] Set %s active=%t by %s", id, active, actor.ID)
	return updated.Public(), nil
}

// Delete removes a staff member who was never paid or named as a payee.
func (s *StaffService) Delete(ctx context.Context, actor Actor, id string) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	if actor.ID == id {
		return fmt.Errorf("%w: you cannot delete yourself", ErrInvalidInput)
	}
	err := s.state.Apply(ctx, func(snap *models.Snapshot) ([]store.Mutation, error) {
		member, ok := snap.StaffMember(id)
		if !ok {
			return nil, fmt.Errorf("staff %s: %w", id, ErrNotFound)
		}
		if snap.Referenced(id, models.EntityStaff) {
			return nil, fmt.Errorf("staff %q: %w", member.Name, ErrEntityReferenced)
		}
		return []store.Mutation{store.DeleteStaff(snap, id)}, nil
	})
	if err != nil {
		log.Printf("[STAFF] Delete of %s refused: %v", id, err)
		return err
	}

	s.audit.LogOperation("STAFF_DELETE", actor.ID, string(models.EntityStaff), id, "")
	return nil
}

// recordLogin stamps the last login time.
func (s *StaffService) recordLogin(ctx context.Context, id string) error {
	return s.state.Apply(ctx, func(snap *models.Snapshot) ([]store.Mutation, error) {
		member, ok := snap.StaffMember(id)
		if !ok {
			return nil, fmt.Errorf("staff %s: %w", id, ErrNotFound)
		}
		at := s.now()
		member.LastLogin = &at
		return []store.Mutation{store.PutStaff(snap, member)}, nil
	})
}

// EnsureBootstrapAdmin creates the configured administrator when the staff
// registry is empty. It reports whether a user was created.
func (s *StaffService) EnsureBootstrapAdmin(ctx context.Context, admin config.BootstrapAdmin) (bool, error) {
	if !admin.Enabled() || len(s.state.Snapshot().Staff) > 0 {
		return false, nil
	}
	_, err := s.Create(ctx, SystemActor, models.StaffInput{
		Name:          admin.Name,
		Email:         admin.Email,
		Role:          models.RoleAdmin,
		Password:      admin.Password,
		MonthlySalary: decimal.Zero,
	})
	if err != nil {
		return false, err
	}
	log.Printf("[STAFF] Bootstrap administrator %s created", admin.Email)
	return true, nil
}
