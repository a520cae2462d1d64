package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T, endpoint *fakeTokenEndpoint, redirectAfterCallback bool) (*Handler, *MemoryTokenStore) {
	t.Helper()
	InitSessionStore([]byte("test-session-secret"), false)
	service, store := newTestService(t, endpoint)
	return NewHandler(service, zap.NewNop(), redirectAfterCallback), store
}

// startAuthFlow runs ConnectHandler and returns the state it generated along
// with the session cookies carrying it.
func startAuthFlow(t *testing.T, handler *Handler) (string, []*http.Cookie) {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ConnectHandler(rec, httptest.NewRequest(http.MethodGet, "/auth", nil))

	require.Equal(t, http.StatusFound, rec.Code)
	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	state := location.Query().Get("state")
	require.NotEmpty(t, state)

	return state, rec.Result().Cookies()
}

func TestConnectHandler(t *testing.T) {
	handler, _ := newTestHandler(t, &fakeTokenEndpoint{t: t}, false)

	state1, cookies := startAuthFlow(t, handler)
	state2, _ := startAuthFlow(t, handler)

	// Per-request random state, persisted in the session cookie.
	assert.NotEqual(t, state1, state2)
	assert.NotEmpty(t, cookies)
}

func TestCallbackHandler(t *testing.T) {
	tokenResponse := map[string]interface{}{
		"access_token":  "access",
		"refresh_token": "refresh",
		"token_type":    "bearer",
		"expires_in":    3600,
	}

	t.Run("valid callback stores token with realm ID", func(t *testing.T) {
		endpoint := &fakeTokenEndpoint{t: t, response: tokenResponse}
		handler, store := newTestHandler(t, endpoint, false)
		state, cookies := startAuthFlow(t, handler)

		req := httptest.NewRequest(http.MethodGet, "/callback?code=abc&state="+url.QueryEscape(state)+"&realmId=realm-42", nil)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		rec := httptest.NewRecorder()
		handler.CallbackHandler(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "success", body["status"])
		assert.Equal(t, "realm-42", body["realm_id"])

		stored, err := store.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "realm-42", stored.RealmID)
	})

	t.Run("redirect variant sends the caller to the invoice list", func(t *testing.T) {
		endpoint := &fakeTokenEndpoint{t: t, response: tokenResponse}
		handler, _ := newTestHandler(t, endpoint, true)
		state, cookies := startAuthFlow(t, handler)

		req := httptest.NewRequest(http.MethodGet, "/callback?code=abc&state="+url.QueryEscape(state)+"&realmId=realm-42", nil)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		rec := httptest.NewRecorder()
		handler.CallbackHandler(rec, req)

		require.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/api/invoices", rec.Header().Get("Location"))
	})

	t.Run("state mismatch is rejected", func(t *testing.T) {
		handler, store := newTestHandler(t, &fakeTokenEndpoint{t: t, response: tokenResponse}, false)
		_, cookies := startAuthFlow(t, handler)

		req := httptest.NewRequest(http.MethodGet, "/callback?code=abc&state=forged", nil)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		rec := httptest.NewRecorder()
		handler.CallbackHandler(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		_, err := store.GetToken(context.Background())
		assert.ErrorIs(t, err, ErrNoToken)
	})

	t.Run("missing parameters are rejected", func(t *testing.T) {
		handler, _ := newTestHandler(t, &fakeTokenEndpoint{t: t}, false)

		rec := httptest.NewRecorder()
		handler.CallbackHandler(rec, httptest.NewRequest(http.MethodGet, "/callback", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("exchange failure yields a 500 with the error", func(t *testing.T) {
		endpoint := &fakeTokenEndpoint{
			t:        t,
			status:   http.StatusBadRequest,
			response: map[string]interface{}{"error": "invalid_grant"},
		}
		handler, _ := newTestHandler(t, endpoint, false)
		state, cookies := startAuthFlow(t, handler)

		req := httptest.NewRequest(http.MethodGet, "/callback?code=abc&state="+url.QueryEscape(state), nil)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		rec := httptest.NewRecorder()
		handler.CallbackHandler(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "Failed to exchange code for token")
	})
}

func TestStatusHandler(t *testing.T) {
	handler, store := newTestHandler(t, &fakeTokenEndpoint{t: t}, false)

	t.Run("disconnected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.StatusHandler(rec, httptest.NewRequest(http.MethodGet, "/auth/status", nil))

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, false, body["connected"])
	})

	t.Run("connected", func(t *testing.T) {
		require.NoError(t, store.SaveToken(context.Background(), &OAuthToken{
			AccessToken: "access",
			ExpiresAt:   time.Now().Add(time.Hour),
			RealmID:     "realm-7",
		}))

		rec := httptest.NewRecorder()
		handler.StatusHandler(rec, httptest.NewRequest(http.MethodGet, "/auth/status", nil))

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, true, body["connected"])
		assert.Equal(t, "realm-7", body["realm_id"])
	})
}
