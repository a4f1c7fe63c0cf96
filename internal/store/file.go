package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// FileDocuments keeps every collection in one JSON file. It is the local
// single-machine mode; the whole file is rewritten on each change.
type FileDocuments struct {
	mu   sync.RWMutex
	path string
	data map[string]map[string]json.RawMessage
}

// OpenFileDocuments loads path, creating an empty store when it does not exist.
func OpenFileDocuments(path string) (*FileDocuments, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}
	f := &FileDocuments{path: path, data: map[string]map[string]json.RawMessage{}}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return f, nil
	}
	if err := json.Unmarshal(raw, &f.data); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return f, nil
}

func (f *FileDocuments) List(_ context.Context, collection string) ([]json.RawMessage, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	ids := make([]string, 0, len(f.data[collection]))
	for id := range f.data[collection] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	docs := make([]json.RawMessage, 0, len(ids))
	for _, id := range ids {
		docs = append(docs, f.data[collection][id])
	}
	return docs, nil
}

func (f *FileDocuments) Put(ctx context.Context, collection, id string, doc json.RawMessage) error {
	return f.withWrite(ctx, func() error {
		if f.data[collection] == nil {
			f.data[collection] = map[string]json.RawMessage{}
		}
		f.data[collection][id] = append(json.RawMessage(nil), doc...)
		return nil
	})
}

func (f *FileDocuments) Delete(ctx context.Context, collection, id string) error {
	return f.withWrite(ctx, func() error {
		if _, ok := f.data[collection][id]; !ok {
			return ErrDocumentNotFound
		}
		delete(f.data[collection], id)
		return nil
	})
}

func (f *FileDocuments) ReplaceAll(ctx context.Context, docs map[string]map[string]json.RawMessage) error {
	return f.withWrite(ctx, func() error {
		f.data = map[string]map[string]json.RawMessage{}
		for collection, byID := range docs {
			f.data[collection] = map[string]json.RawMessage{}
			for id, body := range byID {
				f.data[collection][id] = body
			}
		}
		return nil
	})
}

func (f *FileDocuments) withWrite(ctx context.Context, fn func() error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	if err := fn(); err != nil {
		return err
	}
	return f.flushLocked()
}

// flushLocked replaces the file atomically through a temporary sibling.
func (f *FileDocuments) flushLocked() error {
	raw, err := json.MarshalIndent(f.data, "", "  ")
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}
