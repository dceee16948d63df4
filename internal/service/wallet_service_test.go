package service

import (
	"context"
	"matchos/internal/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBundles(t *testing.T) {
	f := newFixture(t)

	bundles := f.wallet.Bundles()
	require.Len(t, bundles, 4)

	popular := 0
	for _, b := range bundles {
		if b.Popular {
			popular++
			assert.Equal(t, "standard", b.ID)
		}
	}
	assert.Equal(t, 1, popular)

	bundles[0].Credits = 1000
	assert.Equal(t, int64(5), f.wallet.Bundles()[0].Credits)
}

func TestPurchaseAndDeduct(t *testing.T) {
	f := newFixture(t, provider("p1"))
	ctx := context.Background()

	result, err := f.wallet.Purchase(ctx, "p1", &models.PurchaseRequest{BundleID: "premium", PaymentMethod: "baridimob"})
	require.NoError(t, err)
	assert.Equal(t, int64(25), result.NewBalance)

	result, err = f.wallet.Deduct(ctx, "p1", &models.DeductRequest{Amount: 10, Reason: "request unlock"})
	require.NoError(t, err)
	assert.Equal(t, int64(15), result.NewBalance)

	_, err = f.wallet.Deduct(ctx, "p1", &models.DeductRequest{Amount: 16})
	assert.ErrorIs(t, err, ErrInsufficientCredits)

	balance, err := f.wallet.Balance(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(15), balance.Credits)
	assert.NotNil(t, balance.Transactions)

	events := f.publisher.GetEvents()
	require.Len(t, events, 2)
	for _, e := range events {
		assert.Equal(t, models.EventTypeCreditsChanged, e.EventType)
	}
	assert.Equal(t, int64(25), events[1].OldValues["credits"])
}

func TestWalletErrors(t *testing.T) {
	f := newFixture(t, provider("p1"))
	ctx := context.Background()

	_, err := f.wallet.Purchase(ctx, "p1", &models.PurchaseRequest{BundleID: "gold"})
	assert.ErrorIs(t, err, ErrUnknownBundle)

	_, err = f.wallet.Deduct(ctx, "p1", &models.DeductRequest{Amount: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.wallet.Purchase(ctx, "nobody", &models.PurchaseRequest{BundleID: "starter"})
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = f.wallet.Balance(ctx, "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
