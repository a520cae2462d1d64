// item/service.go
package item

import (
	"context"
	"fmt"

	"github.com/oakmont/qbgateway/pkg/qbclient"
)

// API is the slice of the QuickBooks client this service needs.
type API interface {
	FindItemBySKU(ctx context.Context, sku string) (*qbclient.Item, error)
}

// NotFoundError reports a SKU with no matching catalog item. Items are never
// created by this service, so absence fails the containing request.
type NotFoundError struct {
	SKU string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no catalog item matches SKU %q", e.SKU)
}

// Service looks catalog items up read-only.
type Service struct {
	api API
}

// NewService creates a new item service
func NewService(api API) *Service {
	return &Service{api: api}
}

// Lookup resolves a SKU to its catalog item.
func (s *Service) Lookup(ctx context.Context, sku string) (*qbclient.Item, error) {
	found, err := s.api.FindItemBySKU(ctx, sku)
	if err != nil {
		return nil, fmt.Errorf("item lookup failed: %w", err)
	}
	if found == nil {
		return nil, &NotFoundError{SKU: sku}
	}
	return found, nil
}
