// qbclient/types.go
package qbclient

// Ref points at another QuickBooks entity by ID.
type Ref struct {
	Value string `json:"value"`
	Name  string `json:"name,omitempty"`
}

// PhysicalAddress is a QuickBooks billing or shipping address.
type PhysicalAddress struct {
	Line1                  string `json:"Line1,omitempty"`
	Line2                  string `json:"Line2,omitempty"`
	City                   string `json:"City,omitempty"`
	CountrySubDivisionCode string `json:"CountrySubDivisionCode,omitempty"`
	PostalCode             string `json:"PostalCode,omitempty"`
	Country                string `json:"Country,omitempty"`
}

// EmailAddress wraps an email the way the QuickBooks API expects.
type EmailAddress struct {
	Address string `json:"Address,omitempty"`
}

// Customer is a QuickBooks customer record.
type Customer struct {
	ID               string           `json:"Id,omitempty"`
	DisplayName      string           `json:"DisplayName,omitempty"`
	CompanyName      string           `json:"CompanyName,omitempty"`
	PrimaryEmailAddr *EmailAddress    `json:"PrimaryEmailAddr,omitempty"`
	BillAddr         *PhysicalAddress `json:"BillAddr,omitempty"`
	ShipAddr         *PhysicalAddress `json:"ShipAddr,omitempty"`
}

// Item is a QuickBooks catalog item.
type Item struct {
	ID        string  `json:"Id"`
	Name      string  `json:"Name"`
	SKU       string  `json:"Sku,omitempty"`
	UnitPrice float64 `json:"UnitPrice,omitempty"`
}

// SalesItemLineDetail carries the item reference and pricing for a line.
type SalesItemLineDetail struct {
	ItemRef   Ref     `json:"ItemRef"`
	Qty       float64 `json:"Qty"`
	UnitPrice float64 `json:"UnitPrice"`
}

// InvoiceLine is one billable entry on an invoice.
type InvoiceLine struct {
	Amount              float64              `json:"Amount"`
	DetailType          string               `json:"DetailType"`
	Description         string               `json:"Description,omitempty"`
	SalesItemLineDetail *SalesItemLineDetail `json:"SalesItemLineDetail,omitempty"`
}

// Invoice is the payload submitted to the QuickBooks invoice endpoint.
type Invoice struct {
	ID          string           `json:"Id,omitempty"`
	CustomerRef Ref              `json:"CustomerRef"`
	Line        []InvoiceLine    `json:"Line"`
	BillEmail   *EmailAddress    `json:"BillEmail,omitempty"`
	BillAddr    *PhysicalAddress `json:"BillAddr,omitempty"`
	ShipAddr    *PhysicalAddress `json:"ShipAddr,omitempty"`
	ShipDate    string           `json:"ShipDate,omitempty"`
}

// SalesItemLineDetailType is the DetailType for item-based invoice lines.
const SalesItemLineDetailType = "SalesItemLineDetail"
