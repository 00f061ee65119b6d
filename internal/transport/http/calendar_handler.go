package http

import (
	"log/slog"
	"net/http"

	"cloud.google.com/go/civil"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"fxdesk/internal/calendar"
	apierrors "fxdesk/internal/errors"
	api "fxdesk/pkg/contracts/api/v1"
)

// CalendarHandler serves settlement-date arithmetic
type CalendarHandler struct {
	handlerBase
	service CalendarServiceInterface
}

// NewCalendarHandler creates a new calendar handler
func NewCalendarHandler(service CalendarServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *CalendarHandler {
	return &CalendarHandler{
		handlerBase: newHandlerBase("calendar", logger, errorHandler),
		service:     service,
	}
}

// Routes returns the calendar routes
func (h *CalendarHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/spot-date", h.SpotDate)
	r.Get("/business-days", h.BusinessDays)
	r.Post("/add-business-days", h.AddBusinessDays)
	r.Get("/holidays", h.Holidays)
	r.Post("/reload", h.Reload)
	r.Get("/tenor-date", h.TenorDate)
	r.Post("/convert", h.Convert)

	return r
}

// SpotDate handles GET /api/calendar/spot-date?tradeDate=
func (h *CalendarHandler) SpotDate(w http.ResponseWriter, r *http.Request) {
	trade, present, ok := h.query.ValidateDate(w, r, "tradeDate")
	if !ok {
		return
	}

	var tradePtr *civil.Date
	if present {
		tradePtr = &trade
	}

	today, spot := h.service.SpotDate(tradePtr)
	render.JSON(w, r, api.SpotDateResponse{TradeDate: today.String(), SpotDate: spot.String()})
}

// BusinessDays handles GET /api/calendar/business-days?from=&to=
func (h *CalendarHandler) BusinessDays(w http.ResponseWriter, r *http.Request) {
	from, fromPresent, ok := h.query.ValidateDate(w, r, "from")
	if !ok {
		return
	}
	to, toPresent, ok := h.query.ValidateDate(w, r, "to")
	if !ok {
		return
	}
	if !fromPresent || !toPresent {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("from", "from and to are required"))
		return
	}

	render.JSON(w, r, api.BusinessDaysResponse{
		From:         from.String(),
		To:           to.String(),
		BusinessDays: h.service.BusinessDays(from, to),
	})
}

// AddBusinessDays handles POST /api/calendar/add-business-days
func (h *CalendarHandler) AddBusinessDays(w http.ResponseWriter, r *http.Request) {
	var req api.AddBusinessDaysRequest
	if !h.decode(w, r, &req) {
		return
	}

	d := optionalDate(req.Date)
	render.JSON(w, r, api.AddBusinessDaysResponse{
		Date:   req.Date,
		Days:   req.Days,
		Result: h.service.AddBusinessDays(*d, req.Days).String(),
	})
}

// Holidays handles GET /api/calendar/holidays?jurisdiction=KR&year=2025
func (h *CalendarHandler) Holidays(w http.ResponseWriter, r *http.Request) {
	j := calendar.KR
	if raw := r.URL.Query().Get("jurisdiction"); raw != "" {
		parsed, err := calendar.ParseJurisdiction(raw)
		if err != nil {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("jurisdiction", err.Error()))
			return
		}
		j = parsed
	}
	year, ok := h.query.ValidateInt(w, r, "year", 0, 9999, 0)
	if !ok {
		return
	}

	info := h.service.Info()
	holidays := h.service.Holidays(j, year)
	render.JSON(w, r, map[string]interface{}{
		"jurisdiction": j,
		"version":      info.Version,
		"holidays":     holidays,
		"count":        len(holidays),
	})
}

// Reload handles POST /api/calendar/reload. Only the configured holiday file
// (or the embedded tables) can be loaded; a path is never taken from the
// request.
func (h *CalendarHandler) Reload(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.Reload(r.Context(), "")
	if err != nil {
		h.fail(w, r, "holiday reload failed", err)
		return
	}

	h.logger.InfoContext(r.Context(), "holiday tables reloaded via API",
		slog.String("version", info.Version))
	render.JSON(w, r, info)
}

// TenorDate handles GET /api/calendar/tenor-date?tenor=3M&tradeDate=
func (h *CalendarHandler) TenorDate(w http.ResponseWriter, r *http.Request) {
	tenor, ok := h.requireParam(w, r, "tenor")
	if !ok {
		return
	}
	trade, present, ok := h.query.ValidateDate(w, r, "tradeDate")
	if !ok {
		return
	}

	var tradePtr *civil.Date
	if present {
		tradePtr = &trade
	}

	td, err := h.service.TenorDate(tradePtr, tenor)
	if err != nil {
		h.fail(w, r, "tenor date failed", err)
		return
	}
	render.JSON(w, r, td)
}

// Convert handles POST /api/calendar/convert
func (h *CalendarHandler) Convert(w http.ResponseWriter, r *http.Request) {
	var req api.ConvertRequest
	if !h.decode(w, r, &req) {
		return
	}

	spot := optionalDate(req.SpotDate)
	if spot == nil {
		_, s := h.service.SpotDate(optionalDate(req.TradeDate))
		spot = &s
	}

	conv, err := h.service.Convert(*spot, optionalDate(req.SettlementDate), req.Days)
	if err != nil {
		h.fail(w, r, "settlement conversion failed", err)
		return
	}
	render.JSON(w, r, conv)
}
