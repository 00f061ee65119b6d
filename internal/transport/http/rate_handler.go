package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"fxdesk/internal/calendar"
	apierrors "fxdesk/internal/errors"
	"fxdesk/internal/quote"
	api "fxdesk/pkg/contracts/api/v1"
)

// RateHandler serves spread-adjusted customer rates
type RateHandler struct {
	handlerBase
	service RateServiceInterface
}

// NewRateHandler creates a new rate handler
func NewRateHandler(service RateServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *RateHandler {
	return &RateHandler{
		handlerBase: newHandlerBase("rates", logger, errorHandler),
		service:     service,
	}
}

// Routes returns the rate routes
func (h *RateHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/customer", h.CustomerRate)
	r.Get("/customer/all", h.CustomerRates)
	r.Get("/mar", h.MARRate)

	return r
}

// productAndTenor reads productType (default Spot) and an optional tenor.
func (h *RateHandler) productAndTenor(w http.ResponseWriter, r *http.Request) (quote.ProductType, string, bool) {
	product, ok := h.query.ValidateEnum(w, r, "productType", productNames(), string(quote.ProductSpot))
	if !ok {
		return "", "", false
	}
	tenor := r.URL.Query().Get("tenor")
	if tenor != "" && !calendar.IsValidTenor(tenor) {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("tenor", "tenor must be a known tenor such as ON, TN, 1W, 3M or 1Y"))
		return "", "", false
	}
	return quote.ProductType(product), tenor, true
}

// CustomerRate handles GET /api/rates/customer?currencyPairId=&productType=&tenor=&majorGroup=&midGroup=&subGroup=
func (h *RateHandler) CustomerRate(w http.ResponseWriter, r *http.Request) {
	pairID, ok := h.requireParam(w, r, "currencyPairId")
	if !ok {
		return
	}
	product, tenor, ok := h.productAndTenor(w, r)
	if !ok {
		return
	}

	rq, err := h.service.CustomerRate(r.Context(), product, pairID, groupsFromQuery(r), tenor)
	if err != nil {
		h.fail(w, r, "customer rate failed", err)
		return
	}
	render.JSON(w, r, rq)
}

// CustomerRates handles GET /api/rates/customer/all. Pairs without a base
// rate are listed as unavailable.
func (h *RateHandler) CustomerRates(w http.ResponseWriter, r *http.Request) {
	product, tenor, ok := h.productAndTenor(w, r)
	if !ok {
		return
	}

	rates, err := h.service.CustomerRates(r.Context(), product, groupsFromQuery(r), tenor)
	if err != nil {
		h.fail(w, r, "bulk customer rates failed", err)
		return
	}
	render.JSON(w, r, api.ListResponse{Items: rates, Count: len(rates)})
}

// MARRate handles GET /api/rates/mar?currencyPairId=
func (h *RateHandler) MARRate(w http.ResponseWriter, r *http.Request) {
	pairID, ok := h.requireParam(w, r, "currencyPairId")
	if !ok {
		return
	}

	rq, err := h.service.MARRate(r.Context(), pairID, groupsFromQuery(r))
	if err != nil {
		h.fail(w, r, "MAR rate failed", err)
		return
	}
	render.JSON(w, r, rq)
}
