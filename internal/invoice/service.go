// invoice/service.go
package invoice

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/oakmont/qbgateway/internal/customer"
	"github.com/oakmont/qbgateway/internal/item"
	"github.com/oakmont/qbgateway/pkg/qbclient"
)

// API is the slice of the QuickBooks client this service needs.
type API interface {
	CreateInvoice(ctx context.Context, invoice *qbclient.Invoice) (json.RawMessage, error)
	ListInvoices(ctx context.Context) (json.RawMessage, error)
}

// Service sequences customer resolution, line-item resolution and invoice
// creation. All-or-nothing: any missing SKU aborts before the create call.
// A customer created in step one is not rolled back.
type Service struct {
	api       API
	customers *customer.Service
	items     *item.Service
	log       *zap.Logger
}

// NewService creates a new invoice service
func NewService(api API, customers *customer.Service, items *item.Service, log *zap.Logger) *Service {
	return &Service{
		api:       api,
		customers: customers,
		items:     items,
		log:       log,
	}
}

// List fetches all invoices, returning the raw upstream response.
func (s *Service) List(ctx context.Context) (json.RawMessage, error) {
	return s.api.ListInvoices(ctx)
}

// Create builds and submits an invoice from the request, resolving the
// customer by company name and every line item by SKU first.
func (s *Service) Create(ctx context.Context, req CreateRequest, lines []parsedLine) (json.RawMessage, error) {
	cust, err := s.customers.Resolve(ctx, customer.Profile{
		Company:  req.Company,
		Email:    req.Email,
		BillAddr: req.BillingAddress.toQB(),
		ShipAddr: req.ShippingAddress.toQB(),
	})
	if err != nil {
		return nil, err
	}

	qbLines := make([]qbclient.InvoiceLine, 0, len(lines))
	for _, line := range lines {
		catalogItem, err := s.items.Lookup(ctx, line.item.SKU)
		if err != nil {
			return nil, err
		}

		qbLines = append(qbLines, qbclient.InvoiceLine{
			Amount:      line.amount.InexactFloat64(),
			DetailType:  qbclient.SalesItemLineDetailType,
			Description: line.item.Description,
			SalesItemLineDetail: &qbclient.SalesItemLineDetail{
				ItemRef:   qbclient.Ref{Value: catalogItem.ID, Name: catalogItem.Name},
				Qty:       line.quantity.InexactFloat64(),
				UnitPrice: line.price.InexactFloat64(),
			},
		})
	}

	payload := &qbclient.Invoice{
		CustomerRef: qbclient.Ref{Value: cust.ID, Name: cust.DisplayName},
		Line:        qbLines,
		BillEmail:   &qbclient.EmailAddress{Address: req.Email},
		BillAddr:    req.BillingAddress.toQB(),
		ShipAddr:    req.ShippingAddress.toQB(),
		ShipDate:    req.ShippingDate,
	}

	created, err := s.api.CreateInvoice(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("invoice create failed: %w", err)
	}

	s.log.Info("created invoice",
		zap.String("company", req.Company),
		zap.String("customer_id", cust.ID),
		zap.Int("lines", len(qbLines)))

	return created, nil
}
