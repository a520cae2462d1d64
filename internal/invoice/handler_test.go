package invoice

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/oakmont/qbgateway/internal/auth"
	"github.com/oakmont/qbgateway/pkg/qbclient"
)

// newTestRouter wires the invoice endpoints exactly as the server does:
// redirect middleware on the list, 401 middleware on create.
func newTestRouter(t *testing.T, upstream *fakeUpstream, connected bool) *mux.Router {
	t.Helper()

	store := auth.NewMemoryTokenStore()
	if connected {
		require.NoError(t, store.SaveToken(context.Background(), &auth.OAuthToken{
			AccessToken: "access",
			TokenType:   "bearer",
			ExpiresAt:   time.Now().Add(time.Hour),
			RealmID:     "realm-1",
		}))
	}
	authService := auth.NewService(auth.OAuthConfig{}, store)

	handler := NewHandler(newTestService(upstream), zap.NewNop(), "/auth")

	router := mux.NewRouter()

	listRouter := router.Path("/api/invoices").Subrouter()
	listRouter.Use(auth.RedirectWithoutToken(authService, "/auth"))
	listRouter.Methods(http.MethodGet).HandlerFunc(handler.ListHandler)

	createRouter := router.Path("/api/invoices/create").Subrouter()
	createRouter.Use(auth.RequireToken(authService))
	createRouter.Methods(http.MethodPost).HandlerFunc(handler.CreateHandler)

	return router
}

func postJSON(t *testing.T, router *mux.Router, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestListHandler(t *testing.T) {
	t.Run("without a token redirects to /auth with no upstream call", func(t *testing.T) {
		upstream := &fakeUpstream{}
		router := newTestRouter(t, upstream, false)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/invoices", nil))

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/auth", rec.Header().Get("Location"))
		assert.Zero(t, upstream.listCalls)
	})

	t.Run("with a token returns the raw upstream response", func(t *testing.T) {
		upstream := &fakeUpstream{}
		router := newTestRouter(t, upstream, true)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/invoices", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"QueryResponse":{"Invoice":[]}}`, rec.Body.String())
	})

	t.Run("upstream 401 redirects to /auth", func(t *testing.T) {
		upstream := &fakeUpstream{listErr: qbclient.ErrUnauthorized}
		router := newTestRouter(t, upstream, true)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/invoices", nil))

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/auth", rec.Header().Get("Location"))
	})

	t.Run("other upstream errors yield a generic 500", func(t *testing.T) {
		upstream := &fakeUpstream{listErr: assert.AnError}
		router := newTestRouter(t, upstream, true)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/invoices", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "failed to list invoices")
	})
}

func TestCreateHandler(t *testing.T) {
	t.Run("without a token returns 401 and makes no upstream calls", func(t *testing.T) {
		upstream := &fakeUpstream{}
		router := newTestRouter(t, upstream, false)

		rec := postJSON(t, router, "/api/invoices/create", baseRequest())

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "QuickBooks authentication required")
		assert.Zero(t, upstream.customerCreates)
		assert.Zero(t, upstream.invoiceCreates)
	})

	t.Run("successful create returns 201 wrapping the upstream invoice", func(t *testing.T) {
		upstream := &fakeUpstream{
			customers:     map[string]*qbclient.Customer{"Acme Corp": {ID: "42"}},
			items:         map[string]*qbclient.Item{"A1": {ID: "99"}},
			createInvoice: json.RawMessage(`{"Id":"1001","TotalAmt":20.0}`),
		}
		router := newTestRouter(t, upstream, true)

		rec := postJSON(t, router, "/api/invoices/create", baseRequest())

		require.Equal(t, http.StatusCreated, rec.Code)

		var body struct {
			Success bool            `json:"success"`
			Invoice json.RawMessage `json:"invoice"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.True(t, body.Success)
		assert.JSONEq(t, `{"Id":"1001","TotalAmt":20.0}`, string(body.Invoice))
	})

	t.Run("missing SKU yields 500 naming the SKU and no invoice create", func(t *testing.T) {
		upstream := &fakeUpstream{
			customers: map[string]*qbclient.Customer{"Acme Corp": {ID: "42"}},
		}
		router := newTestRouter(t, upstream, true)

		rec := postJSON(t, router, "/api/invoices/create", baseRequest())

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "A1")
		assert.Zero(t, upstream.invoiceCreates)
	})

	t.Run("malformed body yields 400", func(t *testing.T) {
		router := newTestRouter(t, &fakeUpstream{}, true)

		req := httptest.NewRequest(http.MethodPost, "/api/invoices/create", bytes.NewReader([]byte("{not json")))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid quantity yields 400 before any upstream call", func(t *testing.T) {
		upstream := &fakeUpstream{}
		router := newTestRouter(t, upstream, true)

		req := baseRequest()
		req.LineItems[0].Quantity = "two"
		rec := postJSON(t, router, "/api/invoices/create", req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Zero(t, upstream.customerCreates)
		assert.Zero(t, upstream.invoiceCreates)
	})
}
