package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupplierService(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := uuid.New()

	sup, err := f.supplies.Create(ctx, alice, SupplierInput{Name: "Mill", Email: "Orders@Mill.example", Phone: "+1 555 0100"})
	require.NoError(t, err)
	assert.Equal(t, "orders@mill.example", sup.Email)

	_, err = f.supplies.Create(ctx, alice, SupplierInput{Name: "Bad", Email: "nope"})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	updated, err := f.supplies.Update(ctx, alice, sup.ID, SupplierInput{Name: "Old Mill", Address: "1 River Rd"})
	require.NoError(t, err)
	assert.Equal(t, "Old Mill", updated.Name)
	assert.Empty(t, updated.Email)
	assert.Equal(t, "1 River Rd", updated.Address)

	p, err := f.products.Create(ctx, alice, ProductInput{Name: "Rye", SKU: "RYE", Unit: "kg", SupplierID: &sup.ID})
	require.NoError(t, err)

	require.NoError(t, f.supplies.Delete(ctx, alice, sup.ID))
	_, err = f.supplies.Get(ctx, alice, sup.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	got, err := f.products.Get(ctx, alice, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got.SupplierID)

	all, err := f.supplies.List(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, all)
}
