package inventory

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/Adal612Git/cueramaro-prime-v1/internal/shared"
)

// Service provides inventory business logic.
type Service struct {
	logger *slog.Logger
	repo   RepositoryPort
	audit  *shared.AuditLogger
}

// NewService builds Service instance.
func NewService(logger *slog.Logger, repo RepositoryPort, audit *shared.AuditLogger) *Service {
	return &Service{logger: logger, repo: repo, audit: audit}
}

// Ingress receives merchandise: a lot row and the matching stock bump commit
// together or not at all.
func (s *Service) Ingress(ctx context.Context, actor string, req IngressRequest) (*Lot, error) {
	if req.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	var arrival time.Time
	if req.ArrivalDate != nil {
		arrival = *req.ArrivalDate
	}

	var lot Lot
	err := s.repo.WithTx(ctx, func(tx TxRepository) error {
		created, err := tx.InsertLot(ctx, Lot{
			ProductID:      req.ProductID,
			Quantity:       req.Quantity,
			Cost:           req.Cost,
			LotCode:        req.LotCode,
			ArrivalDate:    arrival,
			ExpirationDate: req.ExpirationDate,
		})
		if err != nil {
			return err
		}
		if _, err := tx.AdjustStock(ctx, req.ProductID, req.Quantity); err != nil {
			return err
		}
		lot = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	if auditErr := s.audit.Record(ctx, shared.AuditLog{
		Actor:    actor,
		Action:   "inventory.ingress",
		Entity:   "inventory_lot",
		EntityID: strconv.FormatInt(lot.ID, 10),
		Meta:     map[string]any{"product_id": req.ProductID, "quantity": req.Quantity},
	}); auditErr != nil {
		s.logger.Warn("audit ingress", slog.Any("error", auditErr))
	}
	return &lot, nil
}

// Adjust applies a manual correction to on-hand stock. Negative deltas cover
// waste and shrinkage; the ledger guard blocks anything that would go below
// zero.
func (s *Service) Adjust(ctx context.Context, actor string, req AdjustRequest) (float64, error) {
	onHand, err := s.repo.AdjustStock(ctx, req.ProductID, req.Delta)
	if err != nil {
		return 0, err
	}

	if auditErr := s.audit.Record(ctx, shared.AuditLog{
		Actor:    actor,
		Action:   "inventory.adjust",
		Entity:   "product",
		EntityID: strconv.FormatInt(req.ProductID, 10),
		Meta:     map[string]any{"delta": req.Delta, "reason": req.Reason, "on_hand": onHand},
	}); auditErr != nil {
		s.logger.Warn("audit adjust", slog.Any("error", auditErr))
	}
	return onHand, nil
}

// ListLots returns received lots, newest first.
func (s *Service) ListLots(ctx context.Context, filters LotFilters) ([]Lot, error) {
	return s.repo.ListLots(ctx, filters)
}
