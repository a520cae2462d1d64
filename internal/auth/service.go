// auth/service.go
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// refreshWindow is how close to expiry a token may get before GetValidToken
// refreshes it.
const refreshWindow = 5 * time.Minute

// Service handles OAuth 2.0 operations
type Service struct {
	config     OAuthConfig
	tokenStore TokenStore
	httpClient *http.Client
}

// NewService creates a new auth service
func NewService(config OAuthConfig, tokenStore TokenStore) *Service {
	return &Service{
		config:     config,
		tokenStore: tokenStore,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// TokenStore exposes the underlying store for handlers that only need a read.
func (s *Service) TokenStore() TokenStore {
	return s.tokenStore
}

// AuthorizationURL generates the QuickBooks authorization URL
func (s *Service) AuthorizationURL(state string) string {
	u, _ := url.Parse(s.config.AuthURL)
	q := u.Query()

	q.Set("client_id", s.config.ClientID)
	q.Set("response_type", "code")
	q.Set("scope", strings.Join(s.config.Scopes, " "))
	q.Set("redirect_uri", s.config.RedirectURI)
	q.Set("state", state)

	u.RawQuery = q.Encode()
	return u.String()
}

// Exchange trades an authorization code for tokens and stores the result
// together with the realm ID reported by the callback.
func (s *Service) Exchange(ctx context.Context, code, realmID string) (*OAuthToken, error) {
	data := url.Values{}
	data.Set("grant_type", "authorization_code")
	data.Set("code", code)
	data.Set("redirect_uri", s.config.RedirectURI)

	token, err := s.executeTokenRequest(ctx, data)
	if err != nil {
		return nil, err
	}

	token.ExpiresAt = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)
	token.RealmID = realmID

	if err := s.tokenStore.SaveToken(ctx, token); err != nil {
		return nil, fmt.Errorf("failed to save token: %w", err)
	}

	return token, nil
}

// RefreshToken refreshes an expired access token
func (s *Service) RefreshToken(ctx context.Context) (*OAuthToken, error) {
	token, err := s.tokenStore.GetToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get token for refresh: %w", err)
	}

	data := url.Values{}
	data.Set("grant_type", "refresh_token")
	data.Set("refresh_token", token.RefreshToken)

	newToken, err := s.executeTokenRequest(ctx, data)
	if err != nil {
		return nil, err
	}

	newToken.ExpiresAt = time.Now().Add(time.Duration(newToken.ExpiresIn) * time.Second)
	newToken.RealmID = token.RealmID // Preserve realm ID

	// If the refresh token was not returned, reuse the existing one
	if newToken.RefreshToken == "" {
		newToken.RefreshToken = token.RefreshToken
	}

	if err := s.tokenStore.SaveToken(ctx, newToken); err != nil {
		return nil, fmt.Errorf("failed to save refreshed token: %w", err)
	}

	return newToken, nil
}

// GetValidToken returns a valid token, refreshing it if necessary
func (s *Service) GetValidToken(ctx context.Context) (*OAuthToken, error) {
	token, err := s.tokenStore.GetToken(ctx)
	if err != nil {
		return nil, err
	}

	if time.Until(token.ExpiresAt) < refreshWindow {
		token, err = s.RefreshToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to refresh token: %w", err)
		}
	}

	return token, nil
}

// Disconnect revokes tokens and removes them from storage
func (s *Service) Disconnect(ctx context.Context) error {
	token, err := s.tokenStore.GetToken(ctx)
	if err != nil {
		return fmt.Errorf("failed to get token for revocation: %w", err)
	}

	if err := s.revokeToken(ctx, token.AccessToken); err != nil {
		return err
	}

	if err := s.revokeToken(ctx, token.RefreshToken); err != nil {
		return err
	}

	return s.tokenStore.DeleteToken(ctx)
}

// executeTokenRequest performs the actual token request to QuickBooks
func (s *Service) executeTokenRequest(ctx context.Context, data url.Values) (*OAuthToken, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}

	req.Header.Add("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Add("Accept", "application/json")
	req.SetBasicAuth(s.config.ClientID, s.config.ClientSecret)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("token request failed with status %d: %s", resp.StatusCode, body)
	}

	var token OAuthToken
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("failed to parse token response: %w", err)
	}

	return &token, nil
}

// revokeToken revokes a token with QuickBooks
func (s *Service) revokeToken(ctx context.Context, token string) error {
	data := url.Values{}
	data.Set("token", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.RevokeURL, strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create revoke request: %w", err)
	}

	req.Header.Add("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(s.config.ClientID, s.config.ClientSecret)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("revoke request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("revoke request failed with status %d: %s", resp.StatusCode, body)
	}

	return nil
}
