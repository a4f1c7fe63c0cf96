package handlers

import (
	"net/http"
	"testing"

	"github.com/placementdesk/backend/internal/models"
	"github.com/placementdesk/backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupHandler(t *testing.T) {
	ts := newTestServer(t)
	neha := ts.createCandidate(t, "Neha Kapoor", 40000)
	ts.fee(t, neha, 15000)

	t.Run("clerk cannot export", func(t *testing.T) {
		rr := ts.do(t, http.MethodGet, "/api/v1/backup", ts.clerkToken, nil)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	var raw []byte
	t.Run("admin export", func(t *testing.T) {
		rr := ts.do(t, http.MethodGet, "/api/v1/backup", ts.adminToken, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Header().Get("Content-Disposition"), "ledger-backup-")
		raw = append([]byte(nil), rr.Body.Bytes()...)
		snap := decode[models.Snapshot](t, rr)
		assert.Equal(t, models.SnapshotVersion, snap.Version)
		assert.Len(t, snap.Candidates, 1)
		assert.Len(t, snap.Transactions, 1)
	})

	t.Run("malformed import", func(t *testing.T) {
		rr := ts.do(t, http.MethodPost, "/api/v1/backup", ts.adminToken, "{not json")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("restore round trip", func(t *testing.T) {
		ts.createCandidate(t, "Added After Backup", 1000)

		rr := ts.do(t, http.MethodPost, "/api/v1/backup", ts.adminToken, raw)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		result := decode[services.ImportResult](t, rr)
		assert.Equal(t, 1, result.Candidates)
		assert.Equal(t, 1, result.Transactions)

		rr = ts.do(t, http.MethodGet, "/api/v1/candidates/"+neha.ID, ts.adminToken, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "25000", decode[models.CandidateSummary](t, rr).Due.String())
	})
}
