// customer/service.go
package customer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/oakmont/qbgateway/pkg/qbclient"
)

// API is the slice of the QuickBooks client this service needs.
type API interface {
	FindCustomerByCompany(ctx context.Context, company string) (*qbclient.Customer, error)
	CreateCustomer(ctx context.Context, customer *qbclient.Customer) (*qbclient.Customer, error)
}

// Profile carries the fields used when a customer has to be created.
type Profile struct {
	Company  string
	Email    string
	BillAddr *qbclient.PhysicalAddress
	ShipAddr *qbclient.PhysicalAddress
}

// Service resolves customers by company name, creating them on first use.
type Service struct {
	api API
	log *zap.Logger
}

// NewService creates a new customer service
func NewService(api API, log *zap.Logger) *Service {
	return &Service{
		api: api,
		log: log,
	}
}

// Resolve returns the customer matching the profile's company name. When no
// match exists a new customer is created from the profile; an existing match
// is reused unmodified.
func (s *Service) Resolve(ctx context.Context, profile Profile) (*qbclient.Customer, error) {
	found, err := s.api.FindCustomerByCompany(ctx, profile.Company)
	if err != nil {
		return nil, fmt.Errorf("customer lookup failed: %w", err)
	}
	if found != nil {
		return found, nil
	}

	created, err := s.api.CreateCustomer(ctx, &qbclient.Customer{
		DisplayName: profile.Company,
		CompanyName: profile.Company,
		PrimaryEmailAddr: &qbclient.EmailAddress{
			Address: profile.Email,
		},
		BillAddr: profile.BillAddr,
		ShipAddr: profile.ShipAddr,
	})
	if err != nil {
		return nil, fmt.Errorf("customer create failed: %w", err)
	}

	s.log.Info("created customer", zap.String("company", profile.Company), zap.String("customer_id", created.ID))
	return created, nil
}
