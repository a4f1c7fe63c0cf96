package services

import (
	"errors"

	"github.com/placementdesk/backend/internal/models"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrEntityReferenced  = errors.New("entity is referenced by transactions or obligations")
	ErrSystemAccount     = errors.New("system accounts cannot be deleted")
	ErrTransactionLocked = errors.New("transaction is locked")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidInput      = errors.New("invalid input")
	ErrEmailTaken        = errors.New("email already registered")
	ErrInvalidCredential = errors.New("invalid credentials")
	ErrTooManyAttempts   = errors.New("too many failed login attempts")
)

// Actor is the authenticated staff member performing an operation.
type Actor struct {
	ID   string
	Role models.Role
}

func (a Actor) IsAdmin() bool { return a.Role.Elevated() }

// SystemActor is used for start-up seeding and offline tools.
var SystemActor = Actor{ID: "system", Role: models.RoleAdmin}

func isLockError(err error) bool {
	return errors.Is(err, ErrTransactionLocked)
}
