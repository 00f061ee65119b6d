package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"fxdesk/internal/curve"
	apierrors "fxdesk/internal/errors"
	"fxdesk/internal/quote"
	"fxdesk/internal/services"
	api "fxdesk/pkg/contracts/api/v1"
)

// ForwardHandler prices forwards
type ForwardHandler struct {
	handlerBase
	service PricingServiceInterface
}

// NewForwardHandler creates a new forward handler
func NewForwardHandler(service PricingServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ForwardHandler {
	return &ForwardHandler{
		handlerBase: newHandlerBase("forward", logger, errorHandler),
		service:     service,
	}
}

// Routes returns the forward routes
func (h *ForwardHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/calculate", h.Calculate)
	r.Post("/quote", h.Quote)

	return r
}

// Calculate handles POST /api/forward/calculate. A forward that cannot be
// priced is answered with the problem matching its error type.
func (h *ForwardHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req api.ForwardCalculateRequest
	if !h.decode(w, r, &req) {
		return
	}

	points := make([]curve.TenorPoint, len(req.Points))
	for i, p := range req.Points {
		points[i] = curve.TenorPoint{Tenor: p.Tenor, Days: p.Days, SwapPoint: p.SwapPoint}
	}

	calc := h.service.Calculate(r.Context(), services.CalculateInput{
		SpotRate:       req.SpotRate,
		Points:         points,
		SpotDate:       optionalDate(req.SpotDate),
		TradeDate:      optionalDate(req.TradeDate),
		SettlementDate: *optionalDate(req.SettlementDate),
	})
	if err := calc.Err(); err != nil {
		h.fail(w, r, "forward not priced", err)
		return
	}

	render.JSON(w, r, calc)
}

// Quote handles POST /api/forward/quote
func (h *ForwardHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req api.ForwardQuoteRequest
	if !h.decode(w, r, &req) {
		return
	}

	fq, err := h.service.ForwardQuote(r.Context(), services.QuoteInput{
		CurrencyPairID: req.CurrencyPairID,
		SettlementDate: optionalDate(req.SettlementDate),
		Tenor:          req.Tenor,
		SpotRate:       req.SpotRate,
		Groups: quote.CustomerGroups{
			Major: req.MajorGroup,
			Mid:   req.MidGroup,
			Sub:   req.SubGroup,
		},
	})
	if err != nil {
		h.fail(w, r, "forward quote failed", err)
		return
	}

	render.JSON(w, r, fq)
}
