// qbclient/client.go
package qbclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oakmont/qbgateway/internal/auth"
)

// minorVersion pins the QuickBooks API minor version for all requests.
const minorVersion = "75"

// ErrUnauthorized indicates the upstream API rejected our token.
var ErrUnauthorized = errors.New("quickbooks rejected the access token")

// Client is the main QuickBooks API client
type Client struct {
	baseURL     string
	authService *auth.Service
	httpClient  *http.Client
}

// NewClient creates a new QuickBooks API client
func NewClient(baseURL string, authService *auth.Service) *Client {
	return &Client{
		baseURL:     baseURL,
		authService: authService,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

// sendRequest makes an authenticated request to the QuickBooks API and
// returns the response body.
func (c *Client) sendRequest(ctx context.Context, method, path string, query url.Values, body interface{}) ([]byte, error) {
	// Middleware validates the token once per request and stashes it in the
	// context; fall back to the store for direct callers.
	token := auth.TokenFromContext(ctx)
	if token == nil {
		var err error
		token, err = c.authService.GetValidToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get valid token: %w", err)
		}
	}
	if token.RealmID == "" {
		return nil, fmt.Errorf("no realm ID on stored token")
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	endpoint := fmt.Sprintf("%s/v3/company/%s/%s", c.baseURL, url.PathEscape(token.RealmID), path)
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", fmt.Sprintf("%s %s", token.TokenType, token.AccessToken))
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if query == nil {
		query = url.Values{}
	}
	query.Set("minorversion", minorVersion)
	req.URL.RawQuery = query.Encode()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrUnauthorized
	}

	if resp.StatusCode >= 400 {
		var qbErr struct {
			Fault struct {
				Error []struct {
					Message string `json:"Message"`
					Code    string `json:"code"`
				} `json:"Error"`
			} `json:"Fault"`
		}

		if err := json.Unmarshal(respBody, &qbErr); err == nil && len(qbErr.Fault.Error) > 0 {
			return nil, fmt.Errorf("QuickBooks API error (%s): %s",
				qbErr.Fault.Error[0].Code, qbErr.Fault.Error[0].Message)
		}

		return nil, fmt.Errorf("QuickBooks API returned status %d: %s",
			resp.StatusCode, string(respBody))
	}

	return respBody, nil
}

// query runs a QuickBooks query-language statement.
func (c *Client) query(ctx context.Context, statement string) ([]byte, error) {
	q := url.Values{}
	q.Set("query", statement)
	return c.sendRequest(ctx, http.MethodGet, "query", q, nil)
}

// escapeQueryValue escapes single quotes for the QuickBooks query language.
func escapeQueryValue(v string) string {
	return strings.ReplaceAll(v, `'`, `\'`)
}
