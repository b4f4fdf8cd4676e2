package cart

import (
	"context"
	"testing"

	pkgerrors "github.com/brightloom/storefront-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceReplaceMergesDuplicates(t *testing.T) {
	ctx := context.Background()
	svc, err := NewService(NewMemoryStorage())
	require.NoError(t, err)

	snapshot, err := svc.Replace(ctx, "visitor-1", []Line{
		{ProductID: "a", Name: "A", UnitPrice: price("3.00"), Quantity: 1, Variant: Variant{Size: "S"}},
		{ProductID: "a", Name: "A", UnitPrice: price("3.00"), Quantity: 2, Variant: Variant{Size: "S"}},
		{ProductID: "b", Name: "B", UnitPrice: price("1.50"), Quantity: 1},
	})
	require.NoError(t, err)

	require.Len(t, snapshot.Items, 2)
	assert.Equal(t, 3, snapshot.Items[0].Quantity)
	assert.Equal(t, 4, snapshot.Totals.ItemCount)
	assert.True(t, snapshot.Totals.Total.Equal(price("10.50")), "got %s", snapshot.Totals.Total)
}

func TestServiceReplaceRejectsInvalidLines(t *testing.T) {
	ctx := context.Background()
	svc, err := NewService(NewMemoryStorage())
	require.NoError(t, err)

	_, err = svc.Replace(ctx, "visitor-1", []Line{{ProductID: "", Quantity: 1}})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.Replace(ctx, "visitor-1", []Line{{ProductID: "a", Quantity: 0}})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestServiceFetchEmptyCart(t *testing.T) {
	ctx := context.Background()
	svc, err := NewService(NewMemoryStorage())
	require.NoError(t, err)

	snapshot, err := svc.Fetch(ctx, "visitor-unknown")
	require.NoError(t, err)
	assert.Empty(t, snapshot.Items)
	assert.Equal(t, 0, snapshot.Totals.ItemCount)
}

func TestServiceRequiresToken(t *testing.T) {
	svc, err := NewService(NewMemoryStorage())
	require.NoError(t, err)

	_, err = svc.Fetch(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestServiceClear(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	svc, err := NewService(storage)
	require.NoError(t, err)

	_, err = svc.Replace(ctx, "visitor-1", []Line{{ProductID: "a", Name: "A", UnitPrice: price("2.00"), Quantity: 1}})
	require.NoError(t, err)
	require.NoError(t, svc.Clear(ctx, "visitor-1"))

	snapshot, err := svc.Fetch(ctx, "visitor-1")
	require.NoError(t, err)
	assert.Empty(t, snapshot.Items)
}
