package receivables

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Adal612Git/cueramaro-prime-v1/internal/shared"
)

// Service is the receivables ledger and payment poster.
type Service struct {
	logger *slog.Logger
	repo   RepositoryPort
	cache  *Cache
	audit  *shared.AuditLogger
	group  singleflight.Group
}

// NewService builds Service instance.
func NewService(logger *slog.Logger, repo RepositoryPort, cache *Cache, audit *shared.AuditLogger) *Service {
	return &Service{logger: logger, repo: repo, cache: cache, audit: audit}
}

// AddPayment posts one payment against a sale's outstanding balance. The row
// append and the paid-amount advance commit together. Overpayment is rejected,
// not clamped.
func (s *Service) AddPayment(ctx context.Context, actor string, saleID int64, req AddPaymentRequest) (*PaymentResult, error) {
	var result PaymentResult
	err := s.repo.WithTx(ctx, func(tx TxRepository) error {
		sale, err := tx.GetSaleForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		due := sale.Outstanding()
		if due <= 0 {
			return ErrNoBalance
		}
		if req.Amount <= 0 {
			return ErrInvalidAmount
		}
		if req.Amount > due {
			return ErrOverPayment
		}

		payment, err := tx.InsertPayment(ctx, Payment{
			SaleID: saleID,
			Amount: req.Amount,
			Method: req.Method,
			Note:   req.Note,
		})
		if err != nil {
			return err
		}
		updated, err := tx.ApplyPayment(ctx, saleID, req.Amount)
		if err != nil {
			return err
		}

		result = PaymentResult{
			Payment:     payment,
			Sale:        updated,
			SaleID:      updated.ID,
			Folio:       updated.Folio,
			Total:       updated.Total,
			PaidAmount:  updated.PaidAmount,
			Outstanding: updated.Outstanding(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if bumpErr := s.cache.Bump(ctx); bumpErr != nil {
		s.logger.Warn("bump receivables cache", slog.Any("error", bumpErr))
	}
	if auditErr := s.audit.Record(ctx, shared.AuditLog{
		Actor:    actor,
		Action:   "receivables.payment",
		Entity:   "sale",
		EntityID: strconv.FormatInt(saleID, 10),
		Meta: map[string]any{
			"payment_id":  result.Payment.ID,
			"amount":      result.Payment.Amount,
			"outstanding": result.Outstanding,
		},
	}); auditErr != nil {
		s.logger.Warn("audit payment", slog.Any("error", auditErr))
	}
	return &result, nil
}

// ListPayments returns a sale's payment history, oldest first.
func (s *Service) ListPayments(ctx context.Context, saleID int64) ([]Payment, error) {
	return s.repo.ListPayments(ctx, saleID)
}

// CustomerReceivables aggregates one customer's open debts.
func (s *Service) CustomerReceivables(ctx context.Context, customerID int64) (*CustomerReceivables, error) {
	sales, err := s.repo.CustomerSales(ctx, customerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	result := &CustomerReceivables{CustomerID: customerID, Items: []OpenSale{}}
	for _, sale := range sales {
		if !sale.Open() {
			continue
		}
		outstanding := sale.Outstanding()
		result.Items = append(result.Items, OpenSale{
			SaleID:        sale.ID,
			Folio:         sale.Folio,
			Total:         sale.Total,
			PaidAmount:    sale.PaidAmount,
			Outstanding:   outstanding,
			CreditDueDate: sale.CreditDueDate,
			Overdue:       sale.Overdue(now),
			CreatedAt:     sale.CreatedAt,
		})
		if outstanding > 0 {
			result.TotalDue += outstanding
			result.DebtCount++
		}
	}
	return result, nil
}

// Summary builds the global who-owes-what view, cached and collapsed so a
// burst of dashboard reads triggers at most one rebuild.
func (s *Service) Summary(ctx context.Context) ([]SummaryRow, error) {
	key, err := s.cache.BuildKey(ctx, summaryKeyBase)
	if err != nil {
		return nil, err
	}

	value, err, _ := s.group.Do(key, func() (interface{}, error) {
		var rows []SummaryRow
		if err := s.cache.FetchJSON(ctx, key, &rows, func(ctx context.Context) (interface{}, error) {
			return s.buildSummary(ctx)
		}); err != nil {
			return nil, err
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return value.([]SummaryRow), nil
}

func (s *Service) buildSummary(ctx context.Context) ([]SummaryRow, error) {
	sales, err := s.repo.AllCustomerSales(ctx)
	if err != nil {
		return nil, err
	}

	byCustomer := map[int64]*SummaryRow{}
	for _, cs := range sales {
		sale := cs.Balance
		if !sale.Open() || sale.CustomerID == nil {
			continue
		}
		outstanding := sale.Outstanding()
		if outstanding <= 0 {
			continue
		}
		row, ok := byCustomer[*sale.CustomerID]
		if !ok {
			row = &SummaryRow{CustomerID: *sale.CustomerID, CustomerName: cs.CustomerName}
			byCustomer[*sale.CustomerID] = row
		}
		row.Due += outstanding
		row.DebtCount++
		if sale.CreditDueDate != nil {
			if row.NextDueDate == nil || sale.CreditDueDate.Before(*row.NextDueDate) {
				due := *sale.CreditDueDate
				row.NextDueDate = &due
			}
		}
	}

	rows := make([]SummaryRow, 0, len(byCustomer))
	for _, row := range byCustomer {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Due > rows[j].Due })
	return rows, nil
}

// WarmSummary rebuilds the cached summary; the nightly job calls this.
func (s *Service) WarmSummary(ctx context.Context) error {
	_, err := s.Summary(ctx)
	return err
}
