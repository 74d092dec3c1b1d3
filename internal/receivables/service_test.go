package receivables

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	sales    map[int64]*SaleBalance
	names    map[int64]string
	payments []Payment
	nextID   int64
	loads    int
}

func newMockRepo() *mockRepo {
	return &mockRepo{sales: map[int64]*SaleBalance{}, names: map[int64]string{}, nextID: 1}
}

func (m *mockRepo) addSale(s SaleBalance) {
	copied := s
	m.sales[s.ID] = &copied
}

func (m *mockRepo) WithTx(ctx context.Context, fn func(TxRepository) error) error {
	snapshot := map[int64]SaleBalance{}
	for id, s := range m.sales {
		snapshot[id] = *s
	}
	paymentCount := len(m.payments)
	if err := fn(&mockTx{repo: m}); err != nil {
		for id, s := range snapshot {
			copied := s
			m.sales[id] = &copied
		}
		m.payments = m.payments[:paymentCount]
		return err
	}
	return nil
}

func (m *mockRepo) ListPayments(ctx context.Context, saleID int64) ([]Payment, error) {
	if _, ok := m.sales[saleID]; !ok {
		return nil, ErrSaleNotFound
	}
	result := []Payment{}
	for _, p := range m.payments {
		if p.SaleID == saleID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *mockRepo) CustomerSales(ctx context.Context, customerID int64) ([]SaleBalance, error) {
	result := []SaleBalance{}
	for _, s := range m.sales {
		if s.CustomerID != nil && *s.CustomerID == customerID {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockRepo) AllCustomerSales(ctx context.Context) ([]CustomerSale, error) {
	m.loads++
	result := []CustomerSale{}
	for _, s := range m.sales {
		if s.CustomerID == nil {
			continue
		}
		if s.Outstanding() > 0 || s.PaymentMethod == "credit" {
			result = append(result, CustomerSale{Balance: *s, CustomerName: m.names[*s.CustomerID]})
		}
	}
	return result, nil
}

type mockTx struct {
	repo *mockRepo
}

func (t *mockTx) GetSaleForUpdate(ctx context.Context, saleID int64) (SaleBalance, error) {
	s, ok := t.repo.sales[saleID]
	if !ok {
		return SaleBalance{}, ErrSaleNotFound
	}
	return *s, nil
}

func (t *mockTx) InsertPayment(ctx context.Context, payment Payment) (Payment, error) {
	payment.ID = t.repo.nextID
	t.repo.nextID++
	payment.CreatedAt = time.Now()
	t.repo.payments = append(t.repo.payments, payment)
	return payment, nil
}

func (t *mockTx) ApplyPayment(ctx context.Context, saleID int64, amount float64) (SaleBalance, error) {
	s := t.repo.sales[saleID]
	if s.PaidAmount+amount > s.Total {
		return SaleBalance{}, ErrOverPayment
	}
	s.PaidAmount += amount
	return *s, nil
}

func newTestService(t *testing.T, repo *mockRepo) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewCache(client, time.Minute)
	return NewService(slog.New(slog.DiscardHandler), repo, cache, nil), mr
}

func TestAddPaymentOrderIndependence(t *testing.T) {
	repo := newMockRepo()
	repo.addSale(SaleBalance{ID: 1, Folio: "AB12CD34", PaymentMethod: "credit", Total: 100, PaidAmount: 0})
	svc, _ := newTestService(t, repo)
	ctx := context.Background()

	first, err := svc.AddPayment(ctx, "tester", 1, AddPaymentRequest{Amount: 70})
	require.NoError(t, err)
	assert.Equal(t, 70.0, first.PaidAmount)
	assert.Equal(t, 30.0, first.Outstanding)

	second, err := svc.AddPayment(ctx, "tester", 1, AddPaymentRequest{Amount: 30})
	require.NoError(t, err)
	assert.Equal(t, 100.0, second.PaidAmount)
	assert.Equal(t, 0.0, second.Outstanding)

	_, err = svc.AddPayment(ctx, "tester", 1, AddPaymentRequest{Amount: 1})
	assert.ErrorIs(t, err, ErrNoBalance)
	assert.Len(t, repo.payments, 2, "the rejected payment must not append a row")
}

func TestAddPaymentRejectsOverpayment(t *testing.T) {
	repo := newMockRepo()
	repo.addSale(SaleBalance{ID: 1, PaymentMethod: "credit", Total: 100, PaidAmount: 80})
	svc, _ := newTestService(t, repo)

	_, err := svc.AddPayment(context.Background(), "tester", 1, AddPaymentRequest{Amount: 25})
	assert.ErrorIs(t, err, ErrOverPayment)
	assert.Equal(t, 80.0, repo.sales[1].PaidAmount, "paid amount must be unchanged")
	assert.Empty(t, repo.payments)
}

func TestAddPaymentRejectsNonPositiveAmount(t *testing.T) {
	repo := newMockRepo()
	repo.addSale(SaleBalance{ID: 1, PaymentMethod: "credit", Total: 100})
	svc, _ := newTestService(t, repo)

	_, err := svc.AddPayment(context.Background(), "tester", 1, AddPaymentRequest{Amount: 0})
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestAddPaymentUnknownSale(t *testing.T) {
	svc, _ := newTestService(t, newMockRepo())

	_, err := svc.AddPayment(context.Background(), "tester", 99, AddPaymentRequest{Amount: 10})
	assert.ErrorIs(t, err, ErrSaleNotFound)
}

func TestCustomerReceivablesAggregation(t *testing.T) {
	repo := newMockRepo()
	customerID := int64(4)
	past := time.Now().AddDate(0, 0, -2)
	future := time.Now().AddDate(0, 0, 5)
	repo.addSale(SaleBalance{ID: 1, CustomerID: &customerID, PaymentMethod: "credit", Total: 400, PaidAmount: 150, CreditDueDate: &future})
	repo.addSale(SaleBalance{ID: 2, CustomerID: &customerID, PaymentMethod: "credit", Total: 200, PaidAmount: 0, CreditDueDate: &past})
	repo.addSale(SaleBalance{ID: 3, CustomerID: &customerID, PaymentMethod: "credit", Total: 50, PaidAmount: 50})
	repo.addSale(SaleBalance{ID: 4, CustomerID: &customerID, PaymentMethod: "cash", Total: 75, PaidAmount: 75})
	svc, _ := newTestService(t, repo)

	result, err := svc.CustomerReceivables(context.Background(), customerID)
	require.NoError(t, err)

	assert.Equal(t, 450.0, result.TotalDue)
	assert.Equal(t, 2, result.DebtCount, "settled sales carry no debt")
	assert.Len(t, result.Items, 3, "a settled credit sale is still listed as open")

	for _, item := range result.Items {
		switch item.SaleID {
		case 1:
			assert.False(t, item.Overdue)
			assert.Equal(t, 250.0, item.Outstanding)
		case 2:
			assert.True(t, item.Overdue, "past due date with balance owed")
		case 3:
			assert.False(t, item.Overdue)
			assert.Equal(t, 0.0, item.Outstanding)
		default:
			t.Fatalf("settled cash sale %d must not appear", item.SaleID)
		}
	}
}

func TestSummaryGroupsByCustomerWithNearestDueDate(t *testing.T) {
	repo := newMockRepo()
	ana, beto := int64(1), int64(2)
	repo.names[ana] = "Ana"
	repo.names[beto] = "Beto"
	near := time.Now().AddDate(0, 0, 3)
	far := time.Now().AddDate(0, 0, 30)
	repo.addSale(SaleBalance{ID: 1, CustomerID: &ana, PaymentMethod: "credit", Total: 300, PaidAmount: 100, CreditDueDate: &far})
	repo.addSale(SaleBalance{ID: 2, CustomerID: &ana, PaymentMethod: "credit", Total: 100, PaidAmount: 0, CreditDueDate: &near})
	repo.addSale(SaleBalance{ID: 3, CustomerID: &beto, PaymentMethod: "credit", Total: 50, PaidAmount: 10})
	svc, _ := newTestService(t, repo)

	rows, err := svc.Summary(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Ana", rows[0].CustomerName, "largest debtor first")
	assert.Equal(t, 300.0, rows[0].Due)
	assert.Equal(t, 2, rows[0].DebtCount)
	require.NotNil(t, rows[0].NextDueDate)
	assert.True(t, rows[0].NextDueDate.Equal(near), "nearest due date wins")

	assert.Equal(t, "Beto", rows[1].CustomerName)
	assert.Equal(t, 40.0, rows[1].Due)
}

func TestSummaryServedFromCacheUntilBump(t *testing.T) {
	repo := newMockRepo()
	ana := int64(1)
	repo.names[ana] = "Ana"
	repo.addSale(SaleBalance{ID: 1, CustomerID: &ana, PaymentMethod: "credit", Total: 100, PaidAmount: 0})
	svc, _ := newTestService(t, repo)
	ctx := context.Background()

	_, err := svc.Summary(ctx)
	require.NoError(t, err)
	_, err = svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.loads, "second read must come from cache")

	_, err = svc.AddPayment(ctx, "tester", 1, AddPaymentRequest{Amount: 40})
	require.NoError(t, err)

	rows, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.loads, "payment bump must invalidate the cached summary")
	require.Len(t, rows, 1)
	assert.Equal(t, 60.0, rows[0].Due)
}
