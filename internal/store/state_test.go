package store

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/placementdesk/backend/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []ChangeEvent
	feed   chan ChangeEvent
}

func (r *recordingNotifier) Publish(_ context.Context, ev ChangeEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recordingNotifier) Subscribe(context.Context) (<-chan ChangeEvent, error) {
	return r.feed, nil
}

type MockDocumentStore struct {
	mock.Mock
}

func (m *MockDocumentStore) List(ctx context.Context, collection string) ([]json.RawMessage, error) {
	args := m.Called(ctx, collection)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]json.RawMessage), args.Error(1)
}

func (m *MockDocumentStore) Put(ctx context.Context, collection, id string, doc json.RawMessage) error {
	return m.Called(ctx, collection, id, doc).Error(0)
}

func (m *MockDocumentStore) Delete(ctx context.Context, collection, id string) error {
	return m.Called(ctx, collection, id).Error(0)
}

func (m *MockDocumentStore) ReplaceAll(ctx context.Context, docs map[string]map[string]json.RawMessage) error {
	return m.Called(ctx, docs).Error(0)
}

func newFileState(t *testing.T) (*State, *FileDocuments, *recordingNotifier) {
	t.Helper()
	docs, err := OpenFileDocuments(filepath.Join(t.TempDir(), "ledger.json"))
	require.NoError(t, err)
	notifier := &recordingNotifier{}
	return NewState(docs, notifier), docs, notifier
}

func TestState_EnsureDefaults(t *testing.T) {
	ctx := context.Background()
	state, docs, notifier := newFileState(t)

	require.NoError(t, state.EnsureDefaults(ctx))
	require.NoError(t, state.EnsureDefaults(ctx))

	snap := state.Snapshot()
	require.Len(t, snap.Accounts, 1)
	assert.Equal(t, models.AccountCash, snap.Accounts[0].Type)
	assert.True(t, snap.Accounts[0].IsSystem)
	assert.Len(t, notifier.events, 1)

	reloaded := NewState(docs, nil)
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, snap.Accounts[0].ID, reloaded.Snapshot().Accounts[0].ID)
}

func TestState_Apply(t *testing.T) {
	ctx := context.Background()

	t.Run("guard failure leaves state untouched", func(t *testing.T) {
		state, _, notifier := newFileState(t)
		guardErr := errors.New("refused")

		err := state.Apply(ctx, func(snap *models.Snapshot) ([]Mutation, error) {
			PutCandidate(snap, models.Candidate{ID: "c1", Name: "Asha"})
			return nil, guardErr
		})

		assert.ErrorIs(t, err, guardErr)
		assert.Empty(t, state.Snapshot().Candidates)
		assert.Empty(t, notifier.events)
	})

	t.Run("write failure leaves state untouched", func(t *testing.T) {
		docs := new(MockDocumentStore)
		docs.On("Put", mock.Anything, CollectionCandidates, "c1", mock.Anything).
			Return(errors.New("db down"))
		state := NewState(docs, nil)

		err := state.Apply(ctx, func(snap *models.Snapshot) ([]Mutation, error) {
			return []Mutation{PutCandidate(snap, models.Candidate{ID: "c1", Name: "Asha"})}, nil
		})

		assert.EqualError(t, err, "db down")
		assert.Empty(t, state.Snapshot().Candidates)
		docs.AssertExpectations(t)
	})

	t.Run("snapshots are isolated copies", func(t *testing.T) {
		state, _, _ := newFileState(t)
		require.NoError(t, state.Apply(ctx, func(snap *models.Snapshot) ([]Mutation, error) {
			return []Mutation{PutCandidate(snap, models.Candidate{ID: "c1", Name: "Asha"})}, nil
		}))

		copy1 := state.Snapshot()
		copy1.Candidates[0].Name = "changed"
		assert.Equal(t, "Asha", state.Snapshot().Candidates[0].Name)
	})

	t.Run("delete of a missing document is not an error", func(t *testing.T) {
		docs := new(MockDocumentStore)
		docs.On("Delete", mock.Anything, CollectionObligations, "o1").Return(ErrDocumentNotFound)
		state := NewState(docs, nil)

		err := state.Apply(ctx, func(snap *models.Snapshot) ([]Mutation, error) {
			return []Mutation{DeleteObligation(snap, "o1")}, nil
		})
		assert.NoError(t, err)
	})

	t.Run("change event names collections and ids", func(t *testing.T) {
		state, _, notifier := newFileState(t)
		require.NoError(t, state.Apply(ctx, func(snap *models.Snapshot) ([]Mutation, error) {
			return []Mutation{
				PutCandidate(snap, models.Candidate{ID: "c1"}),
				PutTransaction(snap, models.Transaction{ID: "t1", Amount: decimal.NewFromInt(10)}),
				PutTransaction(snap, models.Transaction{ID: "t2", Amount: decimal.NewFromInt(5)}),
			}, nil
		}))

		require.Len(t, notifier.events, 1)
		ev := notifier.events[0]
		assert.Equal(t, state.Origin(), ev.Origin)
		assert.Equal(t, []string{CollectionCandidates, CollectionTransactions}, ev.Collections)
		assert.Equal(t, []string{"c1", "t1", "t2"}, ev.IDs)
	})
}

func TestState_Replace(t *testing.T) {
	ctx := context.Background()
	state, docs, notifier := newFileState(t)
	require.NoError(t, state.EnsureDefaults(ctx))

	backup := &models.Snapshot{
		Version:    models.SnapshotVersion,
		Accounts:   []models.Account{{ID: "bank", Name: "Bank", Type: models.AccountBank, OpeningBalance: decimal.NewFromInt(100)}},
		Candidates: []models.Candidate{{ID: "c1", Name: "Asha", AgreedAmount: decimal.NewFromInt(5000)}},
		Transactions: []models.Transaction{{
			ID: "t1", Date: "2024-01-05", Type: models.TxIncome, Amount: decimal.NewFromInt(2000),
			FromEntityID: "c1", FromEntityType: models.EntityCandidate,
			ToEntityID: "bank", ToEntityType: models.EntityAccount,
		}},
	}
	require.NoError(t, state.Replace(ctx, backup))

	snap := state.Snapshot()
	assert.Len(t, snap.Accounts, 1)
	assert.Equal(t, "bank", snap.Accounts[0].ID)
	assert.NotNil(t, snap.Staff)
	assert.Len(t, notifier.events, 2)

	reloaded := NewState(docs, nil)
	require.NoError(t, reloaded.Load(ctx))
	got := reloaded.Snapshot()
	require.Len(t, got.Transactions, 1)
	assert.True(t, got.Transactions[0].Amount.Equal(decimal.NewFromInt(2000)))
	assert.Equal(t, "c1", got.Candidates[0].ID)
}

func TestState_Watch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	path := filepath.Join(t.TempDir(), "ledger.json")
	docsA, err := OpenFileDocuments(path)
	require.NoError(t, err)

	feed := make(chan ChangeEvent)
	watcher := NewState(docsA, &recordingNotifier{feed: feed})
	done := make(chan error, 1)
	go func() { done <- watcher.Watch(ctx) }()

	require.NoError(t, docsA.Put(ctx, CollectionCandidates, "c9", json.RawMessage(`{"id":"c9","name":"Ravi"}`)))

	feed <- ChangeEvent{Origin: watcher.Origin(), Collections: []string{CollectionCandidates}}
	feed <- ChangeEvent{Origin: "someone-else", Collections: []string{CollectionCandidates}}
	close(feed)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not return")
	}
	snap := watcher.Snapshot()
	require.Len(t, snap.Candidates, 1)
	assert.Equal(t, "Ravi", snap.Candidates[0].Name)
}

// gatedDocuments pauses the first List call until released.
type gatedDocuments struct {
	*FileDocuments
	once    sync.Once
	started chan struct{}
	release chan struct{}
}

func (g *gatedDocuments) List(ctx context.Context, collection string) ([]json.RawMessage, error) {
	g.once.Do(func() {
		close(g.started)
		<-g.release
	})
	return g.FileDocuments.List(ctx, collection)
}

func TestState_LoadDoesNotRevertConcurrentApply(t *testing.T) {
	ctx := context.Background()
	file, err := OpenFileDocuments(filepath.Join(t.TempDir(), "ledger.json"))
	require.NoError(t, err)
	docs := &gatedDocuments{FileDocuments: file, started: make(chan struct{}), release: make(chan struct{})}
	state := NewState(docs, nil)

	loaded := make(chan error, 1)
	go func() { loaded <- state.Load(ctx) }()
	<-docs.started

	applied := make(chan error, 1)
	go func() {
		applied <- state.Apply(ctx, func(snap *models.Snapshot) ([]Mutation, error) {
			return []Mutation{PutAccount(snap, models.Account{ID: "bank", Name: "Bank", Type: models.AccountBank})}, nil
		})
	}()

	select {
	case err := <-applied:
		t.Fatalf("apply finished during reload: %v", err)
	case <-time.After(50 * time.Millisecond):
	}
	close(docs.release)

	require.NoError(t, <-loaded)
	require.NoError(t, <-applied)

	_, ok := state.Snapshot().Account("bank")
	assert.True(t, ok)
}
