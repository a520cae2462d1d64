// qbclient/invoice.go
package qbclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// CreateInvoice submits an invoice and returns the created upstream object
// unmodified, so callers can pass it through to their own responses.
func (c *Client) CreateInvoice(ctx context.Context, invoice *Invoice) (json.RawMessage, error) {
	body, err := c.sendRequest(ctx, http.MethodPost, "invoice", nil, invoice)
	if err != nil {
		return nil, err
	}

	var result struct {
		Invoice json.RawMessage `json:"Invoice"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse invoice create response: %w", err)
	}
	if len(result.Invoice) == 0 {
		return nil, fmt.Errorf("invoice create response missing Invoice object")
	}

	return result.Invoice, nil
}

// ListInvoices fetches all invoices and returns the raw upstream response.
func (c *Client) ListInvoices(ctx context.Context) (json.RawMessage, error) {
	body, err := c.query(ctx, "select * from Invoice")
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}
