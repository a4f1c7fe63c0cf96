// Package store holds the application state and persists it as JSON documents,
// either in Postgres (shared remote mode) or in a local file.
package store

import (
	"context"
	"encoding/json"
	"errors"
)

// Collections of the document store.
const (
	CollectionAccounts     = "accounts"
	CollectionCandidates   = "candidates"
	CollectionStaff        = "staff"
	CollectionTransactions = "transactions"
	CollectionObligations  = "obligations"
)

// Collections lists every collection in load order.
var Collections = []string{
	CollectionAccounts,
	CollectionCandidates,
	CollectionStaff,
	CollectionTransactions,
	CollectionObligations,
}

var ErrDocumentNotFound = errors.New("document not found")

// DocumentStore persists JSON documents keyed by collection and id.
// Writes are last-write-wins; there is no version check.
type DocumentStore interface {
	List(ctx context.Context, collection string) ([]json.RawMessage, error)
	Put(ctx context.Context, collection, id string, doc json.RawMessage) error
	Delete(ctx context.Context, collection, id string) error
	// ReplaceAll swaps the full content of the store, used by backup restore.
	ReplaceAll(ctx context.Context, docs map[string]map[string]json.RawMessage) error
}
