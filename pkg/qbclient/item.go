// qbclient/item.go
package qbclient

import (
	"context"
	"encoding/json"
	"fmt"
)

// FindItemBySKU looks a catalog item up by its SKU with an exact-match
// query. Returns (nil, nil) when no item matches.
func (c *Client) FindItemBySKU(ctx context.Context, sku string) (*Item, error) {
	statement := fmt.Sprintf("select * from Item where Sku = '%s'", escapeQueryValue(sku))
	body, err := c.query(ctx, statement)
	if err != nil {
		return nil, err
	}

	var result struct {
		QueryResponse struct {
			Item []Item `json:"Item"`
		} `json:"QueryResponse"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse item query response: %w", err)
	}

	if len(result.QueryResponse.Item) == 0 {
		return nil, nil
	}
	return &result.QueryResponse.Item[0], nil
}
