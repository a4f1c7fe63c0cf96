package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/placementdesk/backend/internal/audit"
	mW "github.com/placementdesk/backend/internal/middleware"
	"github.com/placementdesk/backend/internal/models"
	"github.com/placementdesk/backend/internal/services"
	"github.com/placementdesk/backend/internal/store"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

const testPassword = "s3cret-pass"

type testServer struct {
	router     chi.Router
	state      *store.State
	cash       models.Account
	admin      models.Staff
	clerk      models.Staff
	adminToken string
	clerkToken string
}

func setupConfig() {
	viper.Set("argon2.salt_length", 16)
	viper.Set("argon2.time", 1)
	viper.Set("argon2.memory", 8*1024)
	viper.Set("argon2.threads", 1)
	viper.Set("argon2.key_length", 32)
	viper.Set("jwt.secret_key", "handler-secret")
	viper.Set("jwt.expiry_hours", 1)
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	setupConfig()
	docs, err := store.OpenFileDocuments(filepath.Join(t.TempDir(), "ledger.json"))
	require.NoError(t, err)
	state := store.NewState(docs, nil)
	ctx := context.Background()
	require.NoError(t, state.EnsureDefaults(ctx))

	auditLog := audit.NewLogger(log.New(io.Discard, "", 0))
	staff := services.NewStaffService(state, auditLog)
	receipts := services.NewReceiptService(state, nil, "INR")
	mW.InitAuthMiddleware(nil, staff)

	api := API{
		Auth:         NewAuthHandler(services.NewAuthService(staff, nil)),
		Accounts:     NewAccountHandler(services.NewAccountService(state, auditLog)),
		Candidates:   NewCandidateHandler(services.NewCandidateService(state, auditLog)),
		Staff:        NewStaffHandler(staff),
		Transactions: NewTransactionHandler(services.NewTransactionService(state, auditLog), receipts),
		Obligations:  NewObligationHandler(services.NewObligationService(state, auditLog)),
		Reports:      NewReportHandler(services.NewReportService(state, "INR")),
		Backup:       NewBackupHandler(services.NewBackupService(state, auditLog)),
		Receipts:     NewReceiptHandler(receipts),
	}
	r := chi.NewRouter()
	r.Route("/api/v1", api.Mount)

	ts := &testServer{router: r, state: state, cash: state.Snapshot().Accounts[0]}

	ts.admin, err = staff.Create(ctx, services.SystemActor, models.StaffInput{
		Name: "Asha Admin", Email: "admin@desk.test", Role: models.RoleAdmin, Password: testPassword,
	})
	require.NoError(t, err)
	ts.clerk, err = staff.Create(ctx, services.SystemActor, models.StaffInput{
		Name: "Ravi Clerk", Email: "clerk@desk.test", Role: models.RoleStaff, Password: testPassword,
	})
	require.NoError(t, err)

	ts.adminToken = ts.login(t, "admin@desk.test")
	ts.clerkToken = ts.login(t, "clerk@desk.test")
	return ts
}

func (ts *testServer) login(t *testing.T, email string) string {
	t.Helper()
	rr := ts.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": email, "password": testPassword,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var resp services.AuthResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	return resp.Token
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	case []byte:
		reader = bytes.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	ts.router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&v), rr.Body.String())
	return v
}

func (ts *testServer) createCandidate(t *testing.T, name string, agreed float64) models.Candidate {
	t.Helper()
	rr := ts.do(t, http.MethodPost, "/api/v1/candidates", ts.clerkToken, map[string]any{
		"name": name, "agreedAmount": agreed,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[models.Candidate](t, rr)
}

func (ts *testServer) createTransaction(t *testing.T, token string, body map[string]any) models.Transaction {
	t.Helper()
	rr := ts.do(t, http.MethodPost, "/api/v1/transactions", token, body)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[models.Transaction](t, rr)
}

func (ts *testServer) fee(t *testing.T, c models.Candidate, amount float64) models.Transaction {
	t.Helper()
	return ts.createTransaction(t, ts.clerkToken, map[string]any{
		"date":           "2024-05-02",
		"type":           "Income",
		"amount":         amount,
		"fromEntityId":   c.ID,
		"fromEntityType": "Candidate",
		"toEntityId":     ts.cash.ID,
		"toEntityType":   "Account",
	})
}
