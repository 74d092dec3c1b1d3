package sales

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adal612Git/cueramaro-prime-v1/internal/catalog"
	"github.com/Adal612Git/cueramaro-prime-v1/internal/inventory"
	"github.com/Adal612Git/cueramaro-prime-v1/internal/pricing"
)

type mockRepo struct {
	products map[int64]catalog.Product
	sales    []Sale
	nextID   int64
	tickets  []string
}

func newMockRepo() *mockRepo {
	return &mockRepo{products: map[int64]catalog.Product{}, nextID: 1}
}

func (m *mockRepo) addProduct(p catalog.Product) {
	m.products[p.ID] = p
}

func (m *mockRepo) WithTx(ctx context.Context, fn func(TxRepository) error) error {
	snapshot := make(map[int64]catalog.Product, len(m.products))
	for k, v := range m.products {
		snapshot[k] = v
	}
	saleCount := len(m.sales)
	if err := fn(&mockTx{repo: m}); err != nil {
		m.products = snapshot
		m.sales = m.sales[:saleCount]
		return err
	}
	return nil
}

func (m *mockRepo) GetProducts(ctx context.Context, ids []int64) (map[int64]catalog.Product, error) {
	result := map[int64]catalog.Product{}
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			result[id] = p
		}
	}
	return result, nil
}

func (m *mockRepo) GetSale(ctx context.Context, id int64) (Sale, error) {
	for _, s := range m.sales {
		if s.ID == id {
			return s, nil
		}
	}
	return Sale{}, ErrNotFound
}

func (m *mockRepo) ListSales(ctx context.Context, filters ListFilters) ([]Sale, error) {
	return m.sales, nil
}

type mockTx struct {
	repo *mockRepo
}

func (t *mockTx) ReserveStock(ctx context.Context, productID int64, quantity float64) error {
	p, ok := t.repo.products[productID]
	if !ok {
		return inventory.ErrUnknownProduct
	}
	delta := inventory.NormalizeDelta(p.UnitKind, -quantity)
	if p.OnHand+delta < 0 {
		return &inventory.StockError{ProductID: p.ID, Product: p.Name}
	}
	p.OnHand += delta
	t.repo.products[productID] = p
	return nil
}

func (t *mockTx) InsertSale(ctx context.Context, sale Sale) (Sale, error) {
	sale.ID = t.repo.nextID
	t.repo.nextID++
	sale.CreatedAt = time.Now()
	t.repo.sales = append(t.repo.sales, sale)
	return sale, nil
}

func (t *mockTx) InsertSaleLines(ctx context.Context, saleID int64, lines []SaleLine) ([]SaleLine, error) {
	for i := range lines {
		lines[i].SaleID = saleID
		lines[i].ID = int64(i + 1)
	}
	t.repo.sales[len(t.repo.sales)-1].Lines = lines
	return lines, nil
}

func newTestService(repo *mockRepo) *Service {
	return NewService(slog.New(slog.DiscardHandler), repo, nil, nil, nil)
}

func TestCreateSaleWeightBasedCashSettlesImmediately(t *testing.T) {
	repo := newMockRepo()
	repo.addProduct(catalog.Product{ID: 1, SKU: "ARR-01", Name: "Arrachera", UnitKind: catalog.UnitWeight, Price: 100, OnHand: 10})
	svc := newTestService(repo)

	sale, err := svc.CreateSale(context.Background(), "tester", CreateSaleRequest{
		PaymentMethod: MethodCash,
		Items:         []SaleItemRequest{{ProductID: 1, Quantity: 1.5, UnitPrice: 100}},
	})
	require.NoError(t, err)

	assert.Equal(t, 150.0, sale.Total)
	assert.Equal(t, 150.0, sale.PaidAmount, "cash sale settles at creation")
	assert.Equal(t, 0.0, sale.Outstanding())
	assert.Nil(t, sale.CreditDueDate)
	assert.Len(t, sale.Folio, 8)
	assert.Equal(t, 8.5, repo.products[1].OnHand)
	require.Len(t, sale.Lines, 1)
	assert.Equal(t, "Arrachera", sale.Lines[0].ProductName)
	assert.Equal(t, 150.0, sale.Lines[0].LineTotal)
}

func TestCreateSaleCreditStartsUnpaid(t *testing.T) {
	repo := newMockRepo()
	repo.addProduct(catalog.Product{ID: 1, SKU: "ARR-01", Name: "Arrachera", UnitKind: catalog.UnitWeight, Price: 100, OnHand: 10})
	svc := newTestService(repo)
	customerID := int64(4)
	due := time.Now().AddDate(0, 0, 7)

	sale, err := svc.CreateSale(context.Background(), "tester", CreateSaleRequest{
		CustomerID:    &customerID,
		PaymentMethod: MethodCredit,
		CreditDueDate: &due,
		Items:         []SaleItemRequest{{ProductID: 1, Quantity: 4, UnitPrice: 100}},
	})
	require.NoError(t, err)

	assert.Equal(t, 400.0, sale.Total)
	assert.Equal(t, 0.0, sale.PaidAmount)
	assert.Equal(t, 400.0, sale.Outstanding())
	require.NotNil(t, sale.CreditDueDate)
	assert.True(t, sale.CreditDueDate.Equal(due))
}

func TestCreateSaleDropsDueDateForNonCreditMethods(t *testing.T) {
	repo := newMockRepo()
	repo.addProduct(catalog.Product{ID: 1, SKU: "ARR-01", Name: "Arrachera", UnitKind: catalog.UnitWeight, Price: 100, OnHand: 10})
	svc := newTestService(repo)
	due := time.Now().AddDate(0, 0, 7)

	sale, err := svc.CreateSale(context.Background(), "tester", CreateSaleRequest{
		PaymentMethod: MethodCard,
		CreditDueDate: &due,
		Items:         []SaleItemRequest{{ProductID: 1, Quantity: 1, UnitPrice: 100}},
	})
	require.NoError(t, err)
	assert.Nil(t, sale.CreditDueDate)
}

func TestCreateSaleRejectsEmptyCart(t *testing.T) {
	svc := newTestService(newMockRepo())

	_, err := svc.CreateSale(context.Background(), "tester", CreateSaleRequest{PaymentMethod: MethodCash})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCreateSaleRejectsUnknownProduct(t *testing.T) {
	repo := newMockRepo()
	repo.addProduct(catalog.Product{ID: 1, Name: "Arrachera", UnitKind: catalog.UnitWeight, Price: 100, OnHand: 10})
	svc := newTestService(repo)

	_, err := svc.CreateSale(context.Background(), "tester", CreateSaleRequest{
		PaymentMethod: MethodCash,
		Items: []SaleItemRequest{
			{ProductID: 1, Quantity: 1, UnitPrice: 100},
			{ProductID: 42, Quantity: 1, UnitPrice: 100},
		},
	})
	require.ErrorIs(t, err, ErrUnknownProduct)

	var unknown *UnknownProductError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, int64(42), unknown.ProductID)
	assert.Equal(t, 10.0, repo.products[1].OnHand, "no stock moves before the transaction")
}

func TestCreateSalePropagatesInvalidLine(t *testing.T) {
	repo := newMockRepo()
	repo.addProduct(catalog.Product{ID: 1, Name: "Arrachera", UnitKind: catalog.UnitWeight, Price: 50, OnHand: 10})
	svc := newTestService(repo)

	_, err := svc.CreateSale(context.Background(), "tester", CreateSaleRequest{
		PaymentMethod: MethodCash,
		Items:         []SaleItemRequest{{ProductID: 1, Quantity: 2, UnitPrice: 50, Discount: 150}},
	})
	assert.ErrorIs(t, err, pricing.ErrInvalidLine)
	assert.Empty(t, repo.sales)
}

func TestCreateSaleRollsBackAllLinesOnInsufficientStock(t *testing.T) {
	repo := newMockRepo()
	repo.addProduct(catalog.Product{ID: 1, SKU: "ARR-01", Name: "Arrachera", UnitKind: catalog.UnitWeight, Price: 100, OnHand: 10})
	repo.addProduct(catalog.Product{ID: 2, SKU: "CHO-01", Name: "Chorizo", UnitKind: catalog.UnitCount, Price: 40, OnHand: 1})
	svc := newTestService(repo)

	_, err := svc.CreateSale(context.Background(), "tester", CreateSaleRequest{
		PaymentMethod: MethodCash,
		Items: []SaleItemRequest{
			{ProductID: 1, Quantity: 2, UnitPrice: 100},
			{ProductID: 2, Quantity: 5, UnitPrice: 40},
		},
	})
	require.ErrorIs(t, err, inventory.ErrInsufficientStock)

	var stockErr *inventory.StockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Chorizo", stockErr.Product)

	assert.Equal(t, 10.0, repo.products[1].OnHand, "first line's reservation must roll back")
	assert.Equal(t, 1.0, repo.products[2].OnHand)
	assert.Empty(t, repo.sales, "no sale record may survive the rollback")
}

func TestCreateSaleRoundsCountUnits(t *testing.T) {
	repo := newMockRepo()
	repo.addProduct(catalog.Product{ID: 2, Name: "Chorizo", UnitKind: catalog.UnitCount, Price: 40, OnHand: 10})
	svc := newTestService(repo)

	_, err := svc.CreateSale(context.Background(), "tester", CreateSaleRequest{
		PaymentMethod: MethodCash,
		Items:         []SaleItemRequest{{ProductID: 2, Quantity: 2.4, UnitPrice: 40}},
	})
	require.NoError(t, err)
	assert.Equal(t, 8.0, repo.products[2].OnHand, "count stock moves in whole units")
}
