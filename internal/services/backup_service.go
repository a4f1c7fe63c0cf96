package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/placementdesk/backend/internal/audit"
	"github.com/placementdesk/backend/internal/ledger"
	"github.com/placementdesk/backend/internal/models"
)

// SnapshotReplacer can swap the whole application state.
type SnapshotReplacer interface {
	Snapshot() *models.Snapshot
	Replace(ctx context.Context, snap *models.Snapshot) error
}

type BackupService struct {
	state SnapshotReplacer
	audit *audit.Logger
	now   clock
}

func NewBackupService(state SnapshotReplacer, auditLogger *audit.Logger) *BackupService {
	return &BackupService{state: state, audit: auditLogger, now: time.Now}
}

// ImportResult reports what a restore loaded and what looked suspicious.
type ImportResult struct {
	Accounts     int      `json:"accounts"`
	Candidates   int      `json:"candidates"`
	Staff        int      `json:"staff"`
	Transactions int      `json:"transactions"`
	Obligations  int      `json:"obligations"`
	Warnings     []string `json:"warnings"`
}

// Export returns the full state in backup form.
func (s *BackupService) Export(ctx context.Context) *models.Snapshot {
	snap := s.state.Snapshot()
	snap.Version = models.SnapshotVersion
	snap.ExportedAt = s.now().UTC()
	return snap
}

// DecodeSnapshot parses a backup document.
func DecodeSnapshot(raw []byte) (*models.Snapshot, error) {
	var snap models.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("%w: backup is not valid JSON: %v", ErrInvalidInput, err)
	}
	return snap.Clone(), nil
}

// CheckSnapshot validates a backup. Structural problems are errors; data the
// ledger can still fold, such as negative amounts or dangling references, are
// returned as warnings.
func CheckSnapshot(snap *models.Snapshot) ([]string, error) {
	if snap.Version > models.SnapshotVersion {
		return nil, fmt.Errorf("%w: backup version %d is newer than supported version %d",
			ErrInvalidInput, snap.Version, models.SnapshotVersion)
	}
	warnings := []string{}
	seen := map[string]bool{}
	unique := func(kind, id string) error {
		if id == "" {
			return fmt.Errorf("%w: %s without id", ErrInvalidInput, kind)
		}
		key := kind + "/" + id
		if seen[key] {
			return fmt.Errorf("%w: duplicate %s id %s", ErrInvalidInput, kind, id)
		}
		seen[key] = true
		return nil
	}

	for _, a := range snap.Accounts {
		if err := unique("account", a.ID); err != nil {
			return nil, err
		}
		if !a.Type.Valid() {
			return nil, fmt.Errorf("%w: account %s has unknown type %q", ErrInvalidInput, a.ID, a.Type)
		}
	}
	for _, c := range snap.Candidates {
		if err := unique("candidate", c.ID); err != nil {
			return nil, err
		}
	}
	admins := 0
	for _, st := range snap.Staff {
		if err := unique("staff", st.ID); err != nil {
			return nil, err
		}
		if st.Role != models.RoleAdmin && st.Role != models.RoleStaff {
			return nil, fmt.Errorf("%w: staff %s has unknown role %q", ErrInvalidInput, st.ID, st.Role)
		}
		if st.Role == models.RoleAdmin && st.IsActive {
			admins++
		}
	}
	if admins == 0 {
		warnings = append(warnings, "backup has no active administrator")
	}
	for _, t := range snap.Transactions {
		if err := unique("transaction", t.ID); err != nil {
			return nil, err
		}
		if !t.Type.Valid() || !t.FromEntityType.Valid() || !t.ToEntityType.Valid() {
			return nil, fmt.Errorf("%w: transaction %s has an unknown type or party kind", ErrInvalidInput, t.ID)
		}
		if t.Amount.IsNegative() {
			warnings = append(warnings, fmt.Sprintf("transaction %s has negative amount %s", t.ID, t.Amount))
		}
		if _, err := ledger.ParseDate(t.Date); err != nil {
			warnings = append(warnings, fmt.Sprintf("transaction %s has unreadable date %q", t.ID, t.Date))
		}
		if !snap.Exists(t.FromEntityID, t.FromEntityType) {
			warnings = append(warnings, fmt.Sprintf("transaction %s references missing %s %s", t.ID, t.FromEntityType, t.FromEntityID))
		}
		if !snap.Exists(t.ToEntityID, t.ToEntityType) {
			warnings = append(warnings, fmt.Sprintf("transaction %s references missing %s %s", t.ID, t.ToEntityType, t.ToEntityID))
		}
	}
	for _, o := range snap.Obligations {
		if err := unique("obligation", o.ID); err != nil {
			return nil, err
		}
		if o.PayeeType != models.EntityAccount {
			return nil, fmt.Errorf("%w: obligation %s must be paid to an account, not %q", ErrInvalidInput, o.ID, o.PayeeType)
		}
		if !snap.Exists(o.PayeeID, o.PayeeType) {
			warnings = append(warnings, fmt.Sprintf("obligation %s references missing %s %s", o.ID, o.PayeeType, o.PayeeID))
		}
	}
	return warnings, nil
}

// Import validates a backup and replaces the whole state with it.
func (s *BackupService) Import(ctx context.Context, actor Actor, raw []byte) (ImportResult, error) {
	if !actor.IsAdmin() {
		return ImportResult{}, ErrForbidden
	}
	snap, err := DecodeSnapshot(raw)
	if err != nil {
		return ImportResult{}, err
	}
	warnings, err := CheckSnapshot(snap)
	if err != nil {
		return ImportResult{}, err
	}
	if err := s.state.Replace(ctx, snap); err != nil {
		s.audit.LogError("BACKUP_RESTORE", actor.ID, "", err)
		return ImportResult{}, err
	}

	result := ImportResult{
		Accounts:     len(snap.Accounts),
		Candidates:   len(snap.Candidates),
		Staff:        len(snap.Staff),
		Transactions: len(snap.Transactions),
		Obligations:  len(snap.Obligations),
		Warnings:     warnings,
	}
	log.Printf("[BACKUP] Restored %d accounts, %d candidates, %d staff, %d transactions with %d warnings",
		result.Accounts, result.Candidates, result.Staff, result.Transactions, len(warnings))
	s.audit.LogOperation("BACKUP_RESTORE", actor.ID, "Snapshot", "",
		fmt.Sprintf("%d transactions, %d warnings", result.Transactions, len(warnings)))
	return result, nil
}
