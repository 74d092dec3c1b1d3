package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/Adal612Git/cueramaro-prime-v1/internal/catalog"
	"github.com/Adal612Git/cueramaro-prime-v1/internal/customers"
	"github.com/Adal612Git/cueramaro-prime-v1/internal/inventory"
	"github.com/Adal612Git/cueramaro-prime-v1/internal/observability"
	"github.com/Adal612Git/cueramaro-prime-v1/internal/receivables"
	"github.com/Adal612Git/cueramaro-prime-v1/internal/sales"
	"github.com/Adal612Git/cueramaro-prime-v1/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger             *slog.Logger
	Config             *Config
	CatalogHandler     *catalog.Handler
	CustomersHandler   *customers.Handler
	InventoryHandler   *inventory.Handler
	SalesHandler       *sales.Handler
	ReceivablesHandler *receivables.Handler
	JobHandler         *jobs.Handler
	Metrics            *observability.Metrics
}

// NewRouter constructs the chi.Router for the back office API.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Everything below is the counter capability surface.
	r.Group(func(r chi.Router) {
		r.Use(RequireCapability(params.Config.APIToken))

		r.Route("/products", params.CatalogHandler.MountRoutes)
		r.Route("/customers", func(r chi.Router) {
			params.CustomersHandler.MountRoutes(r)
			// Per-customer receivables lives under the customer resource,
			// mirroring the counter UI's drill-down.
			r.Get("/{id}/receivables", params.ReceivablesHandler.CustomerReceivables)
		})
		r.Route("/inventory", params.InventoryHandler.MountRoutes)
		r.Route("/sales", func(r chi.Router) {
			params.SalesHandler.MountRoutes(r)
			r.Get("/{id}/payments", params.ReceivablesHandler.ListPayments)
			r.Post("/{id}/payments", params.ReceivablesHandler.AddPayment)
		})
		r.Get("/reports/receivables", params.ReceivablesHandler.Summary)
		if params.JobHandler != nil {
			r.Route("/jobs", params.JobHandler.MountRoutes)
		}
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
