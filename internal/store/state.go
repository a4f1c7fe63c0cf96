package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/placementdesk/backend/internal/models"
	"github.com/shopspring/decimal"
)

// State is the process-wide application state. Readers get copies through
// Snapshot; writers go through Apply, which persists before publishing the new
// snapshot. Every instance sharing a document store converges by reloading on
// change events; concurrent writers are not detected (last write wins).
type State struct {
	mu       sync.RWMutex
	docs     DocumentStore
	notifier Notifier
	origin   string
	snap     *models.Snapshot
	now      func() time.Time
}

func NewState(docs DocumentStore, notifier Notifier) *State {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &State{
		docs:     docs,
		notifier: notifier,
		origin:   uuid.NewString(),
		snap:     emptySnapshot(),
		now:      time.Now,
	}
}

func emptySnapshot() *models.Snapshot {
	return &models.Snapshot{
		Version:      models.SnapshotVersion,
		Accounts:     []models.Account{},
		Candidates:   []models.Candidate{},
		Staff:        []models.Staff{},
		Transactions: []models.Transaction{},
		Obligations:  []models.Obligation{},
	}
}

// Origin identifies this instance in change events.
func (s *State) Origin() string { return s.origin }

// Load replaces the in-memory state with the content of the document store.
// Writers wait for the reload so a local Apply is never overwritten by an
// older read.
func (s *State) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := emptySnapshot()
	for _, collection := range Collections {
		docs, err := s.docs.List(ctx, collection)
		if err != nil {
			return err
		}
		if err := decodeInto(snap, collection, docs); err != nil {
			return err
		}
	}

	s.snap = snap
	log.Printf("[STATE] Loaded %d accounts, %d candidates, %d staff, %d transactions, %d obligations",
		len(snap.Accounts), len(snap.Candidates), len(snap.Staff), len(snap.Transactions), len(snap.Obligations))
	return nil
}

func decodeInto(snap *models.Snapshot, collection string, docs []json.RawMessage) error {
	for _, raw := range docs {
		var err error
		switch collection {
		case CollectionAccounts:
			var v models.Account
			if err = json.Unmarshal(raw, &v); err == nil {
				snap.Accounts = append(snap.Accounts, v)
			}
		case CollectionCandidates:
			var v models.Candidate
			if err = json.Unmarshal(raw, &v); err == nil {
				snap.Candidates = append(snap.Candidates, v)
			}
		case CollectionStaff:
			var v models.Staff
			if err = json.Unmarshal(raw, &v); err == nil {
				snap.Staff = append(snap.Staff, v)
			}
		case CollectionTransactions:
			var v models.Transaction
			if err = json.Unmarshal(raw, &v); err == nil {
				snap.Transactions = append(snap.Transactions, v)
			}
		case CollectionObligations:
			var v models.Obligation
			if err = json.Unmarshal(raw, &v); err == nil {
				snap.Obligations = append(snap.Obligations, v)
			}
		default:
			return fmt.Errorf("unknown collection %q", collection)
		}
		if err != nil {
			return fmt.Errorf("decoding %s document: %w", collection, err)
		}
	}
	return nil
}

// Snapshot returns a copy of the current state that callers may read freely.
func (s *State) Snapshot() *models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Clone()
}

// Apply runs fn against a working copy of the state. fn validates, mutates the
// copy and returns the writes to persist. The copy becomes current only when
// every write succeeded. A failure part way leaves earlier writes in the store;
// they show up on the next Load.
func (s *State) Apply(ctx context.Context, fn func(snap *models.Snapshot) ([]Mutation, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.snap.Clone()
	muts, err := fn(work)
	if err != nil {
		return err
	}
	for _, m := range muts {
		if err := s.persist(ctx, m); err != nil {
			return err
		}
	}
	s.snap = work
	s.publish(ctx, muts)
	return nil
}

func (s *State) persist(ctx context.Context, m Mutation) error {
	if m.Doc == nil {
		err := s.docs.Delete(ctx, m.Collection, m.ID)
		if errors.Is(err, ErrDocumentNotFound) {
			return nil
		}
		return err
	}
	raw, err := json.Marshal(m.Doc)
	if err != nil {
		return fmt.Errorf("encoding %s/%s: %w", m.Collection, m.ID, err)
	}
	return s.docs.Put(ctx, m.Collection, m.ID, raw)
}

func (s *State) publish(ctx context.Context, muts []Mutation) {
	if len(muts) == 0 {
		return
	}
	ev := ChangeEvent{Origin: s.origin, At: s.now()}
	seen := map[string]bool{}
	for _, m := range muts {
		if !seen[m.Collection] {
			seen[m.Collection] = true
			ev.Collections = append(ev.Collections, m.Collection)
		}
		ev.IDs = append(ev.IDs, m.ID)
	}
	if err := s.notifier.Publish(ctx, ev); err != nil {
		log.Printf("[STATE] Failed to publish change event: %v", err)
	}
}

// Replace swaps the whole state, used to restore a backup.
func (s *State) Replace(ctx context.Context, snap *models.Snapshot) error {
	docs := map[string]map[string]json.RawMessage{}
	add := func(collection, id string, v any) error {
		raw, err := json.Marshal(v)
		if err != nil {
			return err
		}
		if docs[collection] == nil {
			docs[collection] = map[string]json.RawMessage{}
		}
		docs[collection][id] = raw
		return nil
	}
	for _, v := range snap.Accounts {
		if err := add(CollectionAccounts, v.ID, v); err != nil {
			return err
		}
	}
	for _, v := range snap.Candidates {
		if err := add(CollectionCandidates, v.ID, v); err != nil {
			return err
		}
	}
	for _, v := range snap.Staff {
		if err := add(CollectionStaff, v.ID, v); err != nil {
			return err
		}
	}
	for _, v := range snap.Transactions {
		if err := add(CollectionTransactions, v.ID, v); err != nil {
			return err
		}
	}
	for _, v := range snap.Obligations {
		if err := add(CollectionObligations, v.ID, v); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.docs.ReplaceAll(ctx, docs); err != nil {
		return err
	}
	next := snap.Clone()
	next.Version = models.SnapshotVersion
	s.snap = next

	if err := s.notifier.Publish(ctx, ChangeEvent{Origin: s.origin, Collections: Collections, At: s.now()}); err != nil {
		log.Printf("[STATE] Failed to publish restore event: %v", err)
	}
	return nil
}

// DefaultCashAccountName is the account seeded on first run.
const DefaultCashAccountName = "Cash in Hand"

// EnsureDefaults seeds the system Cash account when no account exists.
func (s *State) EnsureDefaults(ctx context.Context) error {
	return s.Apply(ctx, func(snap *models.Snapshot) ([]Mutation, error) {
		if len(snap.Accounts) > 0 {
			return nil, nil
		}
		now := s.now()
		log.Printf("[STATE] Seeding default cash account")
		return []Mutation{PutAccount(snap, models.Account{
			ID:             uuid.NewString(),
			Name:           DefaultCashAccountName,
			Type:           models.AccountCash,
			OpeningBalance: decimal.Zero,
			IsSystem:       true,
			CreatedAt:      now,
			UpdatedAt:      now,
		})}, nil
	})
}

// Watch reloads the state whenever another instance reports a change. It
// returns when ctx is cancelled or the subscription ends.
func (s *State) Watch(ctx context.Context) error {
	events, err := s.notifier.Subscribe(ctx)
	if err != nil {
		return err
	}
	for ev := range events {
		if ev.Origin == s.origin {
			continue
		}
		collections := append([]string(nil), ev.Collections...)
		sort.Strings(collections)
		log.Printf("[SYNC] Change from %s on %v, reloading", ev.Origin, collections)
		if err := s.Load(ctx); err != nil {
			log.Printf("[SYNC] Reload failed: %v", err)
		}
	}
	return ctx.Err()
}
