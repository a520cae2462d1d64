// auth/session.go
package auth

import (
	"net/http"

	"github.com/gorilla/sessions"
)

var store *sessions.CookieStore

// InitSessionStore initializes the cookie session store used for OAuth state
func InitSessionStore(secret []byte, secure bool) {
	store = sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   600, // state lives at most 10 minutes
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// GetSession retrieves the session
func GetSession(r *http.Request) *sessions.Session {
	session, _ := store.Get(r, "qb-auth-session")
	return session
}
