package pricing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPriceLine(t *testing.T) {
	line, err := PriceLine(1.5, 100, 0, 0)
	require.NoError(t, err)
	require.InDelta(t, 150.0, line.Total, 0.0001)
	require.InDelta(t, 100.0, line.UnitPrice, 0.0001)

	line, err = PriceLine(2, 50, 0, 30)
	require.NoError(t, err)
	require.InDelta(t, 70.0, line.Total, 0.0001)
	require.InDelta(t, 30.0, line.Discount, 0.0001)
}

func TestPriceLineCatalogFallback(t *testing.T) {
	line, err := PriceLine(3, 0, 80, 0)
	require.NoError(t, err)
	require.InDelta(t, 80.0, line.UnitPrice, 0.0001)
	require.InDelta(t, 240.0, line.Total, 0.0001)

	_, err = PriceLine(3, 0, 0, 0)
	require.ErrorIs(t, err, ErrInvalidLine)

	_, err = PriceLine(3, -10, 0, 0)
	require.ErrorIs(t, err, ErrInvalidLine)
}

func TestPriceLineDiscountClampedBeforePositivityCheck(t *testing.T) {
	// quantity 2 x price 50 = 100, requested discount 150 clamps to 100,
	// leaving a zero total which the positivity check rejects.
	_, err := PriceLine(2, 50, 0, 150)
	require.ErrorIs(t, err, ErrInvalidLine)

	// A negative discount is treated as no discount at all.
	line, err := PriceLine(2, 50, 0, -20)
	require.NoError(t, err)
	require.InDelta(t, 0.0, line.Discount, 0.0001)
	require.InDelta(t, 100.0, line.Total, 0.0001)
}

func TestPriceLineRejectsNonPositiveQuantity(t *testing.T) {
	_, err := PriceLine(0, 100, 0, 0)
	require.ErrorIs(t, err, ErrInvalidLine)

	_, err = PriceLine(-1, 100, 0, 0)
	require.ErrorIs(t, err, ErrInvalidLine)
}
