package handlers

import (
	"net/http"
	"testing"

	"github.com/placementdesk/backend/internal/models"
	"github.com/placementdesk/backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionHandler(t *testing.T) {
	ts := newTestServer(t)
	arjun := ts.createCandidate(t, "Arjun Rao", 30000)
	fee := ts.fee(t, arjun, 12000)

	t.Run("negative amount", func(t *testing.T) {
		rr := ts.do(t, http.MethodPost, "/api/v1/transactions", ts.clerkToken, map[string]any{
			"date": "2024-05-03", "type": "Income", "amount": -5,
			"fromEntityId": arjun.ID, "fromEntityType": "Candidate",
			"toEntityId": ts.cash.ID, "toEntityType": "Account",
		})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unknown destination", func(t *testing.T) {
		rr := ts.do(t, http.MethodPost, "/api/v1/transactions", ts.clerkToken, map[string]any{
			"date": "2024-05-03", "type": "Income", "amount": 5,
			"fromEntityId": arjun.ID, "fromEntityType": "Candidate",
			"toEntityId": "ghost", "toEntityType": "Account",
		})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("created by caller", func(t *testing.T) {
		assert.Equal(t, ts.clerk.ID, fee.CreatedBy)
		assert.False(t, fee.IsLocked)
	})

	t.Run("filter by participant", func(t *testing.T) {
		rr := ts.do(t, http.MethodGet, "/api/v1/transactions?entityId="+arjun.ID+"&entityType=Candidate", ts.clerkToken, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		txs := decode[[]models.Transaction](t, rr)
		require.Len(t, txs, 1)
		assert.Equal(t, fee.ID, txs[0].ID)

		rr = ts.do(t, http.MethodGet, "/api/v1/transactions?entityId="+arjun.ID, ts.clerkToken, nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("lock workflow", func(t *testing.T) {
		rr := ts.do(t, http.MethodPost, "/api/v1/transactions/"+fee.ID+"/lock", ts.clerkToken, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, decode[models.Transaction](t, rr).IsLocked)

		edit := map[string]any{
			"date": "2024-05-02", "type": "Income", "amount": 15000,
			"fromEntityId": arjun.ID, "fromEntityType": "Candidate",
			"toEntityId": ts.cash.ID, "toEntityType": "Account",
		}
		rr = ts.do(t, http.MethodPut, "/api/v1/transactions/"+fee.ID, ts.clerkToken, edit)
		assert.Equal(t, http.StatusConflict, rr.Code)

		rr = ts.do(t, http.MethodDelete, "/api/v1/transactions/"+fee.ID, ts.clerkToken, nil)
		assert.Equal(t, http.StatusConflict, rr.Code)

		rr = ts.do(t, http.MethodPost, "/api/v1/transactions/"+fee.ID+"/unlock", ts.clerkToken, nil)
		assert.Equal(t, http.StatusForbidden, rr.Code)

		rr = ts.do(t, http.MethodPut, "/api/v1/transactions/"+fee.ID, ts.adminToken, edit)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Equal(t, "15000", decode[models.Transaction](t, rr).Amount.String())

		rr = ts.do(t, http.MethodPost, "/api/v1/transactions/"+fee.ID+"/unlock", ts.adminToken, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.False(t, decode[models.Transaction](t, rr).IsLocked)
	})

	t.Run("receipt", func(t *testing.T) {
		rr := ts.do(t, http.MethodPost, "/api/v1/transactions/"+fee.ID+"/receipt", ts.clerkToken, nil)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		receipt := decode[services.IssuedReceipt](t, rr)
		assert.Equal(t, fee.ID, receipt.TransactionID)
		assert.Equal(t, "Arjun Rao", receipt.From)
		assert.NotEmpty(t, receipt.QRImage)

		// receipts are only verifiable when Redis is configured
		rr = ts.do(t, http.MethodGet, "/api/v1/receipts/"+receipt.Code, "", nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("delete", func(t *testing.T) {
		rr := ts.do(t, http.MethodDelete, "/api/v1/transactions/"+fee.ID, ts.clerkToken, nil)
		assert.Equal(t, http.StatusNoContent, rr.Code)

		rr = ts.do(t, http.MethodGet, "/api/v1/transactions/"+fee.ID, ts.clerkToken, nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
