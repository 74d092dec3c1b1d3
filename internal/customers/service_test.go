package customers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	customers map[int64]Customer
	nextID    int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{customers: map[int64]Customer{}, nextID: 1}
}

func (m *mockRepo) List(ctx context.Context, limit, offset int) ([]Customer, error) {
	result := []Customer{}
	for _, c := range m.customers {
		result = append(result, c)
	}
	return result, nil
}

func (m *mockRepo) Get(ctx context.Context, id int64) (Customer, error) {
	c, ok := m.customers[id]
	if !ok {
		return Customer{}, ErrNotFound
	}
	return c, nil
}

func (m *mockRepo) Create(ctx context.Context, customer Customer) (Customer, error) {
	customer.ID = m.nextID
	m.nextID++
	m.customers[customer.ID] = customer
	return customer, nil
}

func (m *mockRepo) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	c, ok := m.customers[id]
	if !ok {
		return ErrNotFound
	}
	if v, ok := updates["customer_type"].(string); ok {
		c.CustomerType = CreditTerms(v)
	}
	if v, ok := updates["credit_days"].(int); ok {
		c.CreditDays = v
	}
	if v, ok := updates["name"].(string); ok {
		c.Name = v
	}
	m.customers[id] = c
	return nil
}

func TestCreateCustomerCreditDaysForceCreditType(t *testing.T) {
	svc := NewService(newMockRepo())

	customer, err := svc.CreateCustomer(context.Background(), CreateCustomerRequest{
		Name:         "Taqueria El Guero",
		CustomerType: TermsCash,
		CreditDays:   7,
	})
	require.NoError(t, err)
	assert.Equal(t, TermsCredit, customer.CustomerType, "positive credit days always mean a credit customer")
}

func TestCreateCustomerDefaultsToCash(t *testing.T) {
	svc := NewService(newMockRepo())

	customer, err := svc.CreateCustomer(context.Background(), CreateCustomerRequest{Name: "Publico general"})
	require.NoError(t, err)
	assert.Equal(t, TermsCash, customer.CustomerType)
	assert.Equal(t, 0, customer.CreditDays)
}

func TestUpdateCustomerCreditDaysForceCreditType(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	created, err := svc.CreateCustomer(context.Background(), CreateCustomerRequest{Name: "Fonda Dona Mary"})
	require.NoError(t, err)

	days := 15
	updated, err := svc.UpdateCustomer(context.Background(), created.ID, UpdateCustomerRequest{CreditDays: &days})
	require.NoError(t, err)
	assert.Equal(t, TermsCredit, updated.CustomerType)
	assert.Equal(t, 15, updated.CreditDays)
}

func TestDueDateFrom(t *testing.T) {
	c := Customer{CreditDays: 7}
	now := c.CreatedAt
	due := c.DueDateFrom(now)
	require.NotNil(t, due)
	assert.Equal(t, now.AddDate(0, 0, 7), *due)

	cash := Customer{CreditDays: 0}
	assert.Nil(t, cash.DueDateFrom(now))
}
