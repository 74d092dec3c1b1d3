package customers

import (
	"context"
	"fmt"
)

// Service provides customer business logic.
type Service struct {
	repo Repository
}

// NewService builds Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateCustomer registers a customer. Positive credit days force the credit
// customer type so terms and type can never disagree.
func (s *Service) CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*Customer, error) {
	kind := req.CustomerType
	if req.CreditDays > 0 {
		kind = TermsCredit
	} else if kind == "" {
		kind = TermsCash
	}

	customer, err := s.repo.Create(ctx, Customer{
		Name:         req.Name,
		Phone:        req.Phone,
		Email:        req.Email,
		CustomerType: kind,
		CreditDays:   req.CreditDays,
		CreditLimit:  req.CreditLimit,
		Notes:        req.Notes,
	})
	if err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	return &customer, nil
}

// UpdateCustomer applies partial updates with the same terms congruence rule.
func (s *Service) UpdateCustomer(ctx context.Context, id int64, req UpdateCustomerRequest) (*Customer, error) {
	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.CustomerType != nil {
		updates["customer_type"] = string(*req.CustomerType)
	}
	if req.CreditDays != nil {
		updates["credit_days"] = *req.CreditDays
		if *req.CreditDays > 0 {
			updates["customer_type"] = string(TermsCredit)
		}
	}
	if req.CreditLimit != nil {
		updates["credit_limit"] = *req.CreditLimit
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, err
		}
	}
	customer, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetCustomer retrieves a customer by id.
func (s *Service) GetCustomer(ctx context.Context, id int64) (*Customer, error) {
	customer, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// ListCustomers returns customers ordered by registration date.
func (s *Service) ListCustomers(ctx context.Context, limit, offset int) ([]Customer, error) {
	return s.repo.List(ctx, limit, offset)
}
