package tickets

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adal612Git/cueramaro-prime-v1/internal/sales"
)

func TestRenderWritesTicketFile(t *testing.T) {
	dir := t.TempDir()
	renderer, err := NewRenderer(dir)
	require.NoError(t, err)

	due := time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC)
	sale := sales.Sale{
		ID:            1,
		Folio:         "AB12CD34",
		PaymentMethod: sales.MethodCredit,
		Total:         400,
		PaidAmount:    0,
		CreditDueDate: &due,
		CreatedAt:     time.Date(2026, 9, 1, 12, 30, 0, 0, time.UTC),
		Lines: []sales.SaleLine{
			{ProductName: "Arrachera", Quantity: 1.5, UnitPrice: 100, LineTotal: 150},
			{ProductName: "Chorizo", Quantity: 5, UnitPrice: 50, LineTotal: 250},
		},
	}

	path, err := renderer.Render(sale)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "AB12CD34.txt"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(content)
	assert.Contains(t, text, "Folio:  AB12CD34")
	assert.Contains(t, text, "Arrachera")
	assert.Contains(t, text, "400.00")
	assert.Contains(t, text, "credit")
	assert.Contains(t, text, "Vence:       08/09/2026")
}

func TestRenderShowsDiscount(t *testing.T) {
	renderer, err := NewRenderer(t.TempDir())
	require.NoError(t, err)

	sale := sales.Sale{
		Folio:         "FFEEDDCC",
		PaymentMethod: sales.MethodCash,
		Total:         90,
		PaidAmount:    90,
		CreatedAt:     time.Now(),
		Lines: []sales.SaleLine{
			{ProductName: "Arrachera", Quantity: 1, UnitPrice: 100, Discount: 10, LineTotal: 90},
		},
	}

	path, err := renderer.Render(sale)
	require.NoError(t, err)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "-10.00")
}
