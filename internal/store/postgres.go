package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// PostgresDocuments keeps documents in a single JSONB table.
type PostgresDocuments struct {
	db *sql.DB
}

func NewPostgresDocuments(db *sql.DB) *PostgresDocuments {
	return &PostgresDocuments{db: db}
}

func (p *PostgresDocuments) List(ctx context.Context, collection string) ([]json.RawMessage, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT body FROM documents
		WHERE collection = $1
		ORDER BY created_at, id`, collection)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", collection, err)
	}
	defer rows.Close()

	var docs []json.RawMessage
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", collection, err)
		}
		docs = append(docs, json.RawMessage(body))
	}
	return docs, rows.Err()
}

func (p *PostgresDocuments) Put(ctx context.Context, collection, id string, doc json.RawMessage) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO documents (collection, id, body, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (collection, id) DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at`,
		collection, id, []byte(doc), time.Now())
	if err != nil {
		return fmt.Errorf("writing %s/%s: %w", collection, id, err)
	}
	return nil
}

func (p *PostgresDocuments) Delete(ctx context.Context, collection, id string) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM documents WHERE collection = $1 AND id = $2`, collection, id)
	if err != nil {
		return fmt.Errorf("deleting %s/%s: %w", collection, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

func (p *PostgresDocuments) ReplaceAll(ctx context.Context, docs map[string]map[string]json.RawMessage) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM documents`); err != nil {
		return fmt.Errorf("clearing documents: %w", err)
	}
	now := time.Now()
	for _, collection := range Collections {
		byID := docs[collection]
		ids := make([]string, 0, len(byID))
		for id := range byID {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			body := byID[id]
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO documents (collection, id, body, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $4)`,
				collection, id, []byte(body), now); err != nil {
				return fmt.Errorf("restoring %s/%s: %w", collection, id, err)
			}
		}
	}
	return tx.Commit()
}
