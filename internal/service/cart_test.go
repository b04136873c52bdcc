package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/vanir/internal/domain"
)

func TestCartService_AddOrIncrement(t *testing.T) {
	catalog := &mockProductStore{
		getProductFunc: func(ctx context.Context, id int64) (*domain.Product, error) {
			switch id {
			case 1:
				return &domain.Product{ID: 1, Title: "Mug", PriceCents: 1250}, nil
			case 2:
				return &domain.Product{ID: 2, Title: "Retired Mug", PriceCents: 999, Hidden: true}, nil
			}
			return nil, nil
		},
	}

	t.Run("snapshots catalog price into the line", func(t *testing.T) {
		var gotPrice int64
		var gotQuantity int32
		carts := &mockCartStore{
			upsertCartLineFunc: func(ctx context.Context, userID, productID int64, quantity int32, unitPriceCents int64) error {
				gotQuantity = quantity
				gotPrice = unitPriceCents
				return nil
			},
		}
		svc := NewCartService(carts, catalog)

		err := svc.AddOrIncrement(context.Background(), 1, 1, 3)
		require.NoError(t, err)
		assert.Equal(t, int32(3), gotQuantity)
		assert.Equal(t, int64(1250), gotPrice)
	})

	t.Run("rejects quantity below one", func(t *testing.T) {
		svc := NewCartService(&mockCartStore{}, catalog)
		err := svc.AddOrIncrement(context.Background(), 1, 1, 0)
		assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
	})

	t.Run("unknown product is not found", func(t *testing.T) {
		svc := NewCartService(&mockCartStore{}, catalog)
		err := svc.AddOrIncrement(context.Background(), 1, 99, 1)
		assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
	})

	t.Run("hidden product is not found", func(t *testing.T) {
		svc := NewCartService(&mockCartStore{}, catalog)
		err := svc.AddOrIncrement(context.Background(), 1, 2, 1)
		assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
	})
}

func TestCartService_RemoveLine(t *testing.T) {
	carts := &mockCartStore{
		deleteCartLineFunc: func(ctx context.Context, userID, lineID int64) (bool, error) {
			// Line 5 belongs to user 1 only.
			return userID == 1 && lineID == 5, nil
		},
	}
	svc := NewCartService(carts, &mockProductStore{})

	err := svc.RemoveLine(context.Background(), 1, 5)
	assert.NoError(t, err)

	// Someone else's line reads as missing, not forbidden.
	err = svc.RemoveLine(context.Background(), 2, 5)
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))

	err = svc.RemoveLine(context.Background(), 1, 6)
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
}
