// qbclient/customer.go
package qbclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// FindCustomerByCompany looks a customer up by company name. Returns
// (nil, nil) when no customer matches.
func (c *Client) FindCustomerByCompany(ctx context.Context, company string) (*Customer, error) {
	statement := fmt.Sprintf("select * from Customer where CompanyName = '%s'", escapeQueryValue(company))
	body, err := c.query(ctx, statement)
	if err != nil {
		return nil, err
	}

	var result struct {
		QueryResponse struct {
			Customer []Customer `json:"Customer"`
		} `json:"QueryResponse"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse customer query response: %w", err)
	}

	if len(result.QueryResponse.Customer) == 0 {
		return nil, nil
	}
	return &result.QueryResponse.Customer[0], nil
}

// CreateCustomer creates a new customer record.
func (c *Client) CreateCustomer(ctx context.Context, customer *Customer) (*Customer, error) {
	body, err := c.sendRequest(ctx, http.MethodPost, "customer", nil, customer)
	if err != nil {
		return nil, err
	}

	var result struct {
		Customer Customer `json:"Customer"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse customer create response: %w", err)
	}

	return &result.Customer, nil
}
