package sales

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/Adal612Git/cueramaro-prime-v1/internal/customers"
	"github.com/Adal612Git/cueramaro-prime-v1/internal/inventory"
	"github.com/Adal612Git/cueramaro-prime-v1/internal/platform/httpx"
	"github.com/Adal612Git/cueramaro-prime-v1/internal/pricing"
)

// Handler manages sale endpoints. It is the boundary of the transaction
// manager: credit due dates are precomputed here from customer terms before
// the service ever sees the request.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	customers *customers.Service
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, customersSvc *customers.Service) *Handler {
	return &Handler{logger: logger, service: service, customers: customersSvc, validator: validator.New()}
}

// MountRoutes registers sale routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.listSales)
	r.Post("/", h.createSale)
	r.Get("/{id}", h.getSale)
}

func (h *Handler) createSale(w http.ResponseWriter, r *http.Request) {
	var req CreateSaleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	if req.PaymentMethod.IsCredit() && req.CreditDueDate == nil && req.CustomerID != nil {
		customer, err := h.customers.GetCustomer(r.Context(), *req.CustomerID)
		if err != nil {
			if errors.Is(err, customers.ErrNotFound) {
				httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
				return
			}
			h.logger.Error("resolve customer terms", slog.Any("error", err))
			httpx.RespondError(w, err)
			return
		}
		req.CreditDueDate = customer.DueDateFrom(time.Now())
	}

	sale, err := h.service.CreateSale(r.Context(), httpx.Actor(r), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyCart), errors.Is(err, pricing.ErrInvalidLine), errors.Is(err, ErrInvalidTotal):
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		case errors.Is(err, ErrUnknownProduct):
			httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
		case errors.Is(err, inventory.ErrInsufficientStock):
			httpx.Problem(w, http.StatusConflict, "Insufficient Stock", err.Error())
		default:
			h.logger.Error("create sale", slog.Any("error", err))
			httpx.RespondError(w, err)
		}
		return
	}
	httpx.JSON(w, http.StatusCreated, sale)
}

func (h *Handler) getSale(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid sale id")
		return
	}
	sale, err := h.service.GetSale(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
			return
		}
		h.logger.Error("get sale", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, sale)
}

func (h *Handler) listSales(w http.ResponseWriter, r *http.Request) {
	filters := ListFilters{}
	filters.CustomerID, _ = strconv.ParseInt(r.URL.Query().Get("customer_id"), 10, 64)
	filters.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	filters.Offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))

	sales, err := h.service.ListSales(r.Context(), filters)
	if err != nil {
		h.logger.Error("list sales", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": sales})
}
