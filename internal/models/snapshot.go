package models

import "time"

// SnapshotVersion is bumped whenever the backup shape changes incompatibly.
const SnapshotVersion = 1

// Snapshot is the complete application state. It is also the JSON backup format,
// so field names must stay stable.
type Snapshot struct {
	Version      int           `json:"version"`
	Accounts     []Account     `json:"accounts"`
	Candidates   []Candidate   `json:"candidates"`
	Staff        []Staff       `json:"staff"`
	Transactions []Transaction `json:"transactions"`
	Obligations  []Obligation  `json:"obligations"`
	ExportedAt   time.Time     `json:"exportedAt"`
}

// Clone returns a copy whose slices can be mutated without touching s. Empty
// collections come back as empty, non-nil slices.
func (s *Snapshot) Clone() *Snapshot {
	return &Snapshot{
		Version:      s.Version,
		ExportedAt:   s.ExportedAt,
		Accounts:     cloneSlice(s.Accounts),
		Candidates:   cloneSlice(s.Candidates),
		Staff:        cloneSlice(s.Staff),
		Transactions: cloneSlice(s.Transactions),
		Obligations:  cloneSlice(s.Obligations),
	}
}

func cloneSlice[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func (s *Snapshot) Account(id string) (Account, bool) {
	for _, a := range s.Accounts {
		if a.ID == id {
			return a, true
		}
	}
	return Account{}, false
}

func (s *Snapshot) Candidate(id string) (Candidate, bool) {
	for _, c := range s.Candidates {
		if c.ID == id {
			return c, true
		}
	}
	return Candidate{}, false
}

func (s *Snapshot) StaffMember(id string) (Staff, bool) {
	for _, st := range s.Staff {
		if st.ID == id {
			return st, true
		}
	}
	return Staff{}, false
}

func (s *Snapshot) Transaction(id string) (Transaction, bool) {
	for _, t := range s.Transactions {
		if t.ID == id {
			return t, true
		}
	}
	return Transaction{}, false
}

func (s *Snapshot) Obligation(id string) (Obligation, bool) {
	for _, o := range s.Obligations {
		if o.ID == id {
			return o, true
		}
	}
	return Obligation{}, false
}

// Exists reports whether a participant with this id and kind is registered.
func (s *Snapshot) Exists(id string, kind EntityKind) bool {
	switch kind {
	case EntityAccount:
		_, ok := s.Account(id)
		return ok
	case EntityCandidate:
		_, ok := s.Candidate(id)
		return ok
	case EntityStaff:
		_, ok := s.StaffMember(id)
		return ok
	}
	return false
}

// Referenced reports whether any transaction or obligation names the participant.
func (s *Snapshot) Referenced(id string, kind EntityKind) bool {
	for _, t := range s.Transactions {
		if t.References(id, kind) {
			return true
		}
	}
	for _, o := range s.Obligations {
		if o.PayeeID == id && o.PayeeType == kind {
			return true
		}
	}
	return false
}
