package handlers

import (
	"net/http"
	"testing"

	"github.com/placementdesk/backend/internal/models"
	"github.com/placementdesk/backend/internal/services"
	"github.com/stretchr/testify/assert"
)

func TestAuthHandler(t *testing.T) {
	ts := newTestServer(t)

	t.Run("wrong password", func(t *testing.T) {
		rr := ts.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"email": "admin@desk.test", "password": "not-the-password",
		})
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("invalid email", func(t *testing.T) {
		rr := ts.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"email": "nope", "password": testPassword,
		})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		resp := decode[services.ErrorResponse](t, rr)
		assert.Contains(t, resp.Details, "email")
	})

	t.Run("unknown field", func(t *testing.T) {
		rr := ts.do(t, http.MethodPost, "/api/v1/auth/login", "", `{"email":"admin@desk.test","password":"x","otp":"1"}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("trailing object", func(t *testing.T) {
		rr := ts.do(t, http.MethodPost, "/api/v1/auth/login", "", `{"email":"a@b.c","password":"xxxxxx"}{}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		resp := decode[services.ErrorResponse](t, rr)
		assert.Contains(t, resp.Error, "single JSON object")
	})

	t.Run("me requires token", func(t *testing.T) {
		rr := ts.do(t, http.MethodGet, "/api/v1/auth/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("me", func(t *testing.T) {
		rr := ts.do(t, http.MethodGet, "/api/v1/auth/me", ts.clerkToken, nil)
		assert.Equal(t, http.StatusOK, rr.Code)
		me := decode[models.Staff](t, rr)
		assert.Equal(t, ts.clerk.ID, me.ID)
		assert.Empty(t, me.PasswordHash)
	})

	t.Run("logout", func(t *testing.T) {
		rr := ts.do(t, http.MethodPost, "/api/v1/auth/logout", ts.clerkToken, nil)
		assert.Equal(t, http.StatusOK, rr.Code)
	})
}
