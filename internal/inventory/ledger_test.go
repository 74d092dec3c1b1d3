package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Adal612Git/cueramaro-prime-v1/internal/catalog"
)

func TestNormalizeDelta(t *testing.T) {
	t.Run("count goods round to whole units", func(t *testing.T) {
		assert.Equal(t, 3.0, NormalizeDelta(catalog.UnitCount, 2.6))
		assert.Equal(t, -2.0, NormalizeDelta(catalog.UnitCount, -2.4))
		assert.Equal(t, 2.0, NormalizeDelta(catalog.UnitCount, 2.0))
	})

	t.Run("weighed goods keep full precision", func(t *testing.T) {
		assert.Equal(t, 1.535, NormalizeDelta(catalog.UnitWeight, 1.535))
		assert.Equal(t, -0.25, NormalizeDelta(catalog.UnitWeight, -0.25))
	})
}

func TestStockErrorUnwrapsSentinel(t *testing.T) {
	err := &StockError{ProductID: 7, Product: "Arrachera"}
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Arrachera")
}
