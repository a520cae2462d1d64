package item

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakmont/qbgateway/pkg/qbclient"
)

type fakeAPI struct {
	items map[string]*qbclient.Item
	err   error
}

func (f *fakeAPI) FindItemBySKU(_ context.Context, sku string) (*qbclient.Item, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.items[sku], nil
}

func TestLookup(t *testing.T) {
	t.Run("existing SKU resolves", func(t *testing.T) {
		service := NewService(&fakeAPI{items: map[string]*qbclient.Item{
			"A1": {ID: "99", Name: "Widget", SKU: "A1"},
		}})

		got, err := service.Lookup(context.Background(), "A1")
		require.NoError(t, err)
		assert.Equal(t, "99", got.ID)
	})

	t.Run("missing SKU yields NotFoundError naming the SKU", func(t *testing.T) {
		service := NewService(&fakeAPI{})

		_, err := service.Lookup(context.Background(), "B2")
		var notFound *NotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "B2", notFound.SKU)
		assert.Contains(t, err.Error(), `"B2"`)
	})

	t.Run("upstream failure is not a NotFoundError", func(t *testing.T) {
		service := NewService(&fakeAPI{err: errors.New("upstream down")})

		_, err := service.Lookup(context.Background(), "A1")
		require.Error(t, err)
		var notFound *NotFoundError
		assert.False(t, errors.As(err, &notFound))
	})
}
