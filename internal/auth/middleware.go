// auth/middleware.go
package auth

import (
	"context"
	"encoding/json"
	"net/http"
)

// contextKey is a custom type for context keys
type contextKey string

// Context keys
const (
	TokenKey contextKey = "token"
	RealmKey contextKey = "realm_id"
)

// TokenFromContext extracts the token from context
func TokenFromContext(ctx context.Context) *OAuthToken {
	token, _ := ctx.Value(TokenKey).(*OAuthToken)
	return token
}

// RealmFromContext extracts the realm ID from context
func RealmFromContext(ctx context.Context) string {
	realm, _ := ctx.Value(RealmKey).(string)
	return realm
}

// RequireToken rejects requests without a valid QuickBooks token with a 401
// JSON body. Used on programmatic API endpoints.
func RequireToken(service *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := service.GetValidToken(r.Context())
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{
					"error": "QuickBooks authentication required",
				})
				return
			}

			next.ServeHTTP(w, r.WithContext(withToken(r.Context(), token)))
		})
	}
}

// RedirectWithoutToken sends requests without a valid QuickBooks token to the
// authorization flow instead of failing. Used on browser-facing endpoints.
func RedirectWithoutToken(service *Service, authPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := service.GetValidToken(r.Context())
			if err != nil {
				http.Redirect(w, r, authPath, http.StatusFound)
				return
			}

			next.ServeHTTP(w, r.WithContext(withToken(r.Context(), token)))
		})
	}
}

func withToken(ctx context.Context, token *OAuthToken) context.Context {
	ctx = context.WithValue(ctx, TokenKey, token)
	return context.WithValue(ctx, RealmKey, token.RealmID)
}
