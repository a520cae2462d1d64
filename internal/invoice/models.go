// invoice/models.go
package invoice

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/oakmont/qbgateway/pkg/qbclient"
)

// Address mirrors the billing/shipping fields accepted on the wire.
type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country,omitempty"`
}

// LineItem is one submitted invoice line. Numeric fields arrive as strings
// and are parsed as decimals before payload assembly.
type LineItem struct {
	SKU         string `json:"sku"`
	Description string `json:"description,omitempty"`
	Quantity    string `json:"quantity"`
	UnitPrice   string `json:"unitPrice"`
	TotalAmount string `json:"totalAmount,omitempty"`
}

// CreateRequest is the body of POST /api/invoices/create.
type CreateRequest struct {
	Company         string     `json:"company"`
	Email           string     `json:"email"`
	BillingAddress  Address    `json:"billingAddress"`
	ShippingAddress Address    `json:"shippingAddress"`
	LineItems       []LineItem `json:"lineItems"`
	ShippingDate    string     `json:"shippingDate,omitempty"`
}

// parsedLine holds a line item's decimals after validation.
type parsedLine struct {
	item     LineItem
	quantity decimal.Decimal
	price    decimal.Decimal
	amount   decimal.Decimal
}

// Validate checks the request and parses its numeric strings.
func (r *CreateRequest) Validate() ([]parsedLine, error) {
	if r.Company == "" {
		return nil, fmt.Errorf("company is required")
	}
	if len(r.LineItems) == 0 {
		return nil, fmt.Errorf("at least one line item is required")
	}

	lines := make([]parsedLine, 0, len(r.LineItems))
	for i, li := range r.LineItems {
		if li.SKU == "" {
			return nil, fmt.Errorf("lineItems[%d]: sku is required", i)
		}
		qty, err := decimal.NewFromString(li.Quantity)
		if err != nil {
			return nil, fmt.Errorf("lineItems[%d]: invalid quantity %q", i, li.Quantity)
		}
		price, err := decimal.NewFromString(li.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("lineItems[%d]: invalid unitPrice %q", i, li.UnitPrice)
		}

		amount := qty.Mul(price)
		if li.TotalAmount != "" {
			amount, err = decimal.NewFromString(li.TotalAmount)
			if err != nil {
				return nil, fmt.Errorf("lineItems[%d]: invalid totalAmount %q", i, li.TotalAmount)
			}
		}

		lines = append(lines, parsedLine{
			item:     li,
			quantity: qty,
			price:    price,
			amount:   amount,
		})
	}

	return lines, nil
}

func (a Address) toQB() *qbclient.PhysicalAddress {
	if a == (Address{}) {
		return nil
	}
	return &qbclient.PhysicalAddress{
		Line1:                  a.Line1,
		Line2:                  a.Line2,
		City:                   a.City,
		CountrySubDivisionCode: a.State,
		PostalCode:             a.PostalCode,
		Country:                a.Country,
	}
}
