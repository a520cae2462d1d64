// auth/models.go
package auth

import (
	"context"
	"errors"
	"time"
)

// ErrNoToken indicates no QuickBooks connection token has been stored.
var ErrNoToken = errors.New("no token stored")

// OAuthToken represents token data from QuickBooks
type OAuthToken struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int       `json:"expires_in"`
	ExpiresAt    time.Time `json:"expires_at"`
	RealmID      string    `json:"realm_id"` // Company ID in QuickBooks
}

// Valid reports whether the token exists and has not expired.
func (t *OAuthToken) Valid() bool {
	return t != nil && t.AccessToken != "" && time.Now().Before(t.ExpiresAt)
}

// TokenStore holds the single process-wide QuickBooks connection token.
type TokenStore interface {
	SaveToken(ctx context.Context, token *OAuthToken) error
	GetToken(ctx context.Context) (*OAuthToken, error)
	DeleteToken(ctx context.Context) error
}

// OAuthConfig holds OAuth 2.0 configuration
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Scopes       []string
	AuthURL      string
	TokenURL     string
	RevokeURL    string
}
