package valueobject

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert(t *testing.T) {
	t.Run("kilograms to grams", func(t *testing.T) {
		got, err := Convert(decimal.NewFromInt(5), "kg", "g")
		require.NoError(t, err)
		assert.True(t, got.Equal(decimal.NewFromInt(5000)), "got %s", got)
	})

	t.Run("liters to milliliters", func(t *testing.T) {
		got, err := Convert(decimal.NewFromInt(1), "l", "ml")
		require.NoError(t, err)
		assert.True(t, got.Equal(decimal.NewFromInt(1000)), "got %s", got)
	})

	t.Run("grams to kilograms", func(t *testing.T) {
		got, err := Convert(decimal.NewFromInt(250), "g", "kg")
		require.NoError(t, err)
		assert.True(t, got.Equal(decimal.RequireFromString("0.25")), "got %s", got)
	})

	t.Run("same unit is identity", func(t *testing.T) {
		x := decimal.RequireFromString("12.345")
		for _, u := range append(KnownUnits(), "crate") {
			got, err := Convert(x, u, u)
			require.NoError(t, err, u)
			assert.True(t, got.Equal(x), u)
		}
	})

	t.Run("unit codes are case-insensitive", func(t *testing.T) {
		got, err := Convert(decimal.NewFromInt(2), " KG ", "G")
		require.NoError(t, err)
		assert.True(t, got.Equal(decimal.NewFromInt(2000)))
	})

	t.Run("table is not transitive", func(t *testing.T) {
		require.True(t, CanConvert("g", "ml"))
		require.True(t, CanConvert("g", "mg"))

		_, err := Convert(decimal.NewFromInt(1), "mg", "l")
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrUnsupportedConversion))

		var convErr *UnsupportedConversionError
		require.True(t, errors.As(err, &convErr))
		assert.Equal(t, "mg", convErr.From)
		assert.Equal(t, "l", convErr.To)
		assert.Contains(t, err.Error(), `"mg"`)
		assert.Contains(t, err.Error(), `"l"`)
	})
}

func TestKnownUnits(t *testing.T) {
	units := KnownUnits()
	assert.Contains(t, units, UnitKilogram)
	assert.Contains(t, units, UnitPiece)
	assert.IsNonDecreasing(t, units)
}
