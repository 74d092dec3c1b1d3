package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/Adal612Git/cueramaro-prime-v1/internal/receivables"
	"github.com/Adal612Git/cueramaro-prime-v1/internal/sales"
	"github.com/Adal612Git/cueramaro-prime-v1/internal/tickets"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTicketGenerate renders the counter ticket for a finalized sale.
	TaskTicketGenerate = "ticket:generate"
	// TaskReceivablesWarmup rebuilds the cached receivables summary.
	TaskReceivablesWarmup = "receivables:warmup"
)

// TicketPayload carries the full finalized sale so the worker never touches
// the database to render a ticket.
type TicketPayload struct {
	Sale sales.Sale `json:"sale"`
}

// NewTicketTask constructs an Asynq task for ticket generation.
func NewTicketTask(payload TicketPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTicketGenerate, data), nil
}

// NewTicketHandler processes TaskTicketGenerate tasks.
func NewTicketHandler(logger *slog.Logger, renderer *tickets.Renderer) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload TicketPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		path, err := renderer.Render(payload.Sale)
		if err != nil {
			return err
		}
		logger.Info("ticket rendered", slog.String("folio", payload.Sale.Folio), slog.String("path", path))
		return nil
	}
}

// NewWarmupTask constructs the nightly cache warmup task.
func NewWarmupTask() *asynq.Task {
	return asynq.NewTask(TaskReceivablesWarmup, nil)
}

// NewWarmupHandler processes TaskReceivablesWarmup tasks.
func NewWarmupHandler(logger *slog.Logger, svc *receivables.Service) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		if err := svc.WarmSummary(ctx); err != nil {
			return err
		}
		logger.Info("receivables summary rewarmed")
		return nil
	}
}
