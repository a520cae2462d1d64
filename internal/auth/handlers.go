// auth/handlers.go
package auth

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Handler provides HTTP handlers for auth flows
type Handler struct {
	service *Service
	log     *zap.Logger

	// redirectAfterCallback switches the callback response from a JSON
	// payload to a 302 to the invoice list.
	redirectAfterCallback bool
}

// NewHandler creates a new auth handler
func NewHandler(service *Service, log *zap.Logger, redirectAfterCallback bool) *Handler {
	return &Handler{
		service:               service,
		log:                   log,
		redirectAfterCallback: redirectAfterCallback,
	}
}

// generateState creates a secure random state for OAuth
func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// ConnectHandler initiates the QuickBooks authorization flow
func (h *Handler) ConnectHandler(w http.ResponseWriter, r *http.Request) {
	state, err := generateState()
	if err != nil {
		http.Error(w, "Failed to generate state", http.StatusInternalServerError)
		return
	}

	// Save state in session for verification at callback time
	session := GetSession(r)
	session.Values["qb_state"] = state
	session.Values["qb_state_expiry"] = time.Now().Add(10 * time.Minute).Unix()
	if err := session.Save(r, w); err != nil {
		http.Error(w, "Failed to save session", http.StatusInternalServerError)
		return
	}

	authURL := h.service.AuthorizationURL(state)
	http.Redirect(w, r, authURL, http.StatusFound)
}

// CallbackHandler handles the OAuth callback from QuickBooks
func (h *Handler) CallbackHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	code := query.Get("code")
	state := query.Get("state")
	realmID := query.Get("realmId")

	if code == "" || state == "" {
		http.Error(w, "Invalid callback parameters", http.StatusBadRequest)
		return
	}

	// Verify state parameter
	session := GetSession(r)
	savedState, ok := session.Values["qb_state"].(string)
	if !ok || savedState != state {
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}

	expiry, ok := session.Values["qb_state_expiry"].(int64)
	if !ok || time.Now().Unix() > expiry {
		http.Error(w, "State parameter expired", http.StatusBadRequest)
		return
	}

	// Clean up session
	delete(session.Values, "qb_state")
	delete(session.Values, "qb_state_expiry")
	if err := session.Save(r, w); err != nil {
		http.Error(w, "Failed to save session", http.StatusInternalServerError)
		return
	}

	token, err := h.service.Exchange(r.Context(), code, realmID)
	if err != nil {
		h.log.Error("oauth code exchange failed", zap.Error(err))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "Failed to exchange code for token: " + err.Error(),
		})
		return
	}

	h.log.Info("quickbooks connected", zap.String("realm_id", token.RealmID))

	if h.redirectAfterCallback {
		http.Redirect(w, r, "/api/invoices", http.StatusFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":   "success",
		"realm_id": token.RealmID,
	})
}

// DisconnectHandler revokes QuickBooks tokens
func (h *Handler) DisconnectHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Disconnect(r.Context()); err != nil {
		h.log.Error("disconnect failed", zap.Error(err))
		http.Error(w, "Failed to disconnect: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "success",
	})
}

// StatusHandler returns the connection status
func (h *Handler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	token, err := h.service.TokenStore().GetToken(r.Context())
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"connected": false,
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"connected":  true,
		"realm_id":   token.RealmID,
		"expires_at": token.ExpiresAt,
	})
}
