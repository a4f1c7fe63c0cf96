package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresDocuments_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	docs := NewPostgresDocuments(db)

	t.Run("returns bodies in order", func(t *testing.T) {
		mock.ExpectQuery("SELECT body FROM documents").
			WithArgs(CollectionAccounts).
			WillReturnRows(sqlmock.NewRows([]string{"body"}).
				AddRow([]byte(`{"id":"a1"}`)).
				AddRow([]byte(`{"id":"a2"}`)))

		got, err := docs.List(context.Background(), CollectionAccounts)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.JSONEq(t, `{"id":"a1"}`, string(got[0]))
		assert.JSONEq(t, `{"id":"a2"}`, string(got[1]))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query failure", func(t *testing.T) {
		mock.ExpectQuery("SELECT body FROM documents").
			WithArgs(CollectionStaff).
			WillReturnError(errors.New("connection reset"))

		_, err := docs.List(context.Background(), CollectionStaff)
		assert.ErrorContains(t, err, "listing staff")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresDocuments_Put(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	docs := NewPostgresDocuments(db)
	body := json.RawMessage(`{"id":"c1","name":"Asha"}`)

	mock.ExpectExec("INSERT INTO documents").
		WithArgs(CollectionCandidates, "c1", []byte(body), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = docs.Put(context.Background(), CollectionCandidates, "c1", body)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDocuments_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	docs := NewPostgresDocuments(db)

	t.Run("existing document", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM documents WHERE collection = \\$1 AND id = \\$2").
			WithArgs(CollectionTransactions, "t1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, docs.Delete(context.Background(), CollectionTransactions, "t1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing document", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM documents WHERE collection = \\$1 AND id = \\$2").
			WithArgs(CollectionTransactions, "nope").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := docs.Delete(context.Background(), CollectionTransactions, "nope")
		assert.ErrorIs(t, err, ErrDocumentNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresDocuments_ReplaceAll(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	docs := NewPostgresDocuments(db)

	t.Run("clears and inserts in collection order", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM documents").WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectExec("INSERT INTO documents").
			WithArgs(CollectionAccounts, "a1", []byte(`{"id":"a1"}`), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO documents").
			WithArgs(CollectionAccounts, "a2", []byte(`{"id":"a2"}`), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO documents").
			WithArgs(CollectionTransactions, "t1", []byte(`{"id":"t1"}`), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := docs.ReplaceAll(context.Background(), map[string]map[string]json.RawMessage{
			CollectionTransactions: {"t1": json.RawMessage(`{"id":"t1"}`)},
			CollectionAccounts: {
				"a2": json.RawMessage(`{"id":"a2"}`),
				"a1": json.RawMessage(`{"id":"a1"}`),
			},
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insert failure rolls back", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM documents").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("INSERT INTO documents").
			WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		err := docs.ReplaceAll(context.Background(), map[string]map[string]json.RawMessage{
			CollectionStaff: {"s1": json.RawMessage(`{"id":"s1"}`)},
		})
		assert.ErrorContains(t, err, "restoring staff/s1")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
