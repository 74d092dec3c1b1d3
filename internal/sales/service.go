package sales

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/Adal612Git/cueramaro-prime-v1/internal/pricing"
	"github.com/Adal612Git/cueramaro-prime-v1/internal/shared"
)

// DocumentsPort hands a finalized sale to the ticket generator. It runs after
// commit and never participates in the sale transaction.
type DocumentsPort interface {
	EnqueueSaleTicket(ctx context.Context, sale Sale) error
}

// SummaryInvalidator bumps the receivables summary cache version after a
// write that changes outstanding balances.
type SummaryInvalidator interface {
	Bump(ctx context.Context) error
}

// Service is the sale transaction manager.
type Service struct {
	logger  *slog.Logger
	repo    RepositoryPort
	docs    DocumentsPort
	summary SummaryInvalidator
	audit   *shared.AuditLogger
}

// NewService builds Service instance.
func NewService(logger *slog.Logger, repo RepositoryPort, docs DocumentsPort, summary SummaryInvalidator, audit *shared.AuditLogger) *Service {
	return &Service{logger: logger, repo: repo, docs: docs, summary: summary, audit: audit}
}

// newFolio issues the short code printed on tickets.
func newFolio() string {
	return strings.ToUpper(uuid.NewString()[:8])
}

// CreateSale runs checkout. Every stock reservation and the sale rows commit
// together or not at all; a single insufficient line rolls back the lot.
func (s *Service) CreateSale(ctx context.Context, actor string, req CreateSaleRequest) (*Sale, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyCart
	}
	if !req.PaymentMethod.Valid() {
		return nil, fmt.Errorf("sales: invalid payment method %q", req.PaymentMethod)
	}

	ids := make([]int64, 0, len(req.Items))
	for _, item := range req.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.repo.GetProducts(ctx, ids)
	if err != nil {
		return nil, err
	}

	lines := make([]SaleLine, 0, len(req.Items))
	total := 0.0
	for _, item := range req.Items {
		product, ok := products[item.ProductID]
		if !ok {
			return nil, &UnknownProductError{ProductID: item.ProductID}
		}
		priced, err := pricing.PriceLine(item.Quantity, item.UnitPrice, product.Price, item.Discount)
		if err != nil {
			return nil, err
		}
		lines = append(lines, SaleLine{
			ProductID:   product.ID,
			ProductName: product.Name,
			ProductSKU:  product.SKU,
			Quantity:    priced.Quantity,
			UnitPrice:   priced.UnitPrice,
			Discount:    priced.Discount,
			LineTotal:   priced.Total,
		})
		total += priced.Total
	}
	if total <= 0 {
		return nil, ErrInvalidTotal
	}

	paid := total
	var dueDate = req.CreditDueDate
	if req.PaymentMethod.IsCredit() {
		paid = 0
	} else {
		dueDate = nil
	}

	var sale Sale
	err = s.repo.WithTx(ctx, func(tx TxRepository) error {
		for _, line := range lines {
			if err := tx.ReserveStock(ctx, line.ProductID, line.Quantity); err != nil {
				return err
			}
		}
		created, err := tx.InsertSale(ctx, Sale{
			Folio:         newFolio(),
			CustomerID:    req.CustomerID,
			PaymentMethod: req.PaymentMethod,
			Total:         total,
			PaidAmount:    paid,
			CreditDueDate: dueDate,
			Notes:         req.Notes,
		})
		if err != nil {
			return err
		}
		inserted, err := tx.InsertSaleLines(ctx, created.ID, lines)
		if err != nil {
			return err
		}
		created.Lines = inserted
		sale = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, actor, sale)
	return &sale, nil
}

// afterCommit runs the fire-and-forget consumers of a finalized sale. Their
// failures are logged, never surfaced to the buyer.
func (s *Service) afterCommit(ctx context.Context, actor string, sale Sale) {
	if s.docs != nil {
		if err := s.docs.EnqueueSaleTicket(ctx, sale); err != nil {
			s.logger.Warn("enqueue sale ticket", slog.String("folio", sale.Folio), slog.Any("error", err))
		}
	}
	if s.summary != nil {
		if err := s.summary.Bump(ctx); err != nil {
			s.logger.Warn("bump receivables cache", slog.Any("error", err))
		}
	}
	if auditErr := s.audit.Record(ctx, shared.AuditLog{
		Actor:    actor,
		Action:   "sales.create",
		Entity:   "sale",
		EntityID: strconv.FormatInt(sale.ID, 10),
		Meta: map[string]any{
			"folio":  sale.Folio,
			"method": string(sale.PaymentMethod),
			"total":  sale.Total,
		},
	}); auditErr != nil {
		s.logger.Warn("audit sale", slog.Any("error", auditErr))
	}
}

// GetSale loads one sale with its lines and product details.
func (s *Service) GetSale(ctx context.Context, id int64) (*Sale, error) {
	sale, err := s.repo.GetSale(ctx, id)
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// ListSales returns sales, most recent first.
func (s *Service) ListSales(ctx context.Context, filters ListFilters) ([]Sale, error) {
	return s.repo.ListSales(ctx, filters)
}
