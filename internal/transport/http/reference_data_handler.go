package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "fxdesk/internal/errors"
	"fxdesk/internal/quote"
	"fxdesk/internal/store"
	api "fxdesk/pkg/contracts/api/v1"
)

// ReferenceDataHandler maintains base rates and spread settings
type ReferenceDataHandler struct {
	handlerBase
	service RateServiceInterface
}

// NewReferenceDataHandler creates a new reference data handler
func NewReferenceDataHandler(service RateServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ReferenceDataHandler {
	return &ReferenceDataHandler{
		handlerBase: newHandlerBase("reference_data", logger, errorHandler),
		service:     service,
	}
}

// MarketRateRoutes returns the /market-rates routes
func (h *ReferenceDataHandler) MarketRateRoutes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Post("/", h.RecordMarketRate)
	return r
}

// SpreadSettingRoutes returns the /spread-settings routes
func (h *ReferenceDataHandler) SpreadSettingRoutes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/", h.ListSpreadSettings)
	r.Post("/", h.CreateSpreadSetting)
	return r
}

// RecordMarketRate handles POST /api/market-rates
func (h *ReferenceDataHandler) RecordMarketRate(w http.ResponseWriter, r *http.Request) {
	var req api.MarketRateRequest
	if !h.decode(w, r, &req) {
		return
	}

	stored, err := h.service.RecordMarketRate(r.Context(), quote.BaseRate{
		CurrencyPairID: req.CurrencyPairID,
		BuyRate:        req.BuyRate,
		SellRate:       req.SellRate,
		Source:         req.Source,
	})
	if err != nil {
		h.fail(w, r, "failed to record market rate", err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, stored)
}

// ListSpreadSettings handles GET /api/spread-settings?productType=&currencyPairId=&active=
func (h *ReferenceDataHandler) ListSpreadSettings(w http.ResponseWriter, r *http.Request) {
	product, ok := h.query.ValidateEnum(w, r, "productType", productNames(), "")
	if !ok {
		return
	}
	active, ok := h.query.ValidateEnum(w, r, "active", []string{"true", "false"}, "false")
	if !ok {
		return
	}

	settings, err := h.service.SpreadSettings(r.Context(), store.SpreadFilter{
		ProductType:    quote.ProductType(product),
		CurrencyPairID: r.URL.Query().Get("currencyPairId"),
		ActiveOnly:     active == "true",
	})
	if err != nil {
		h.fail(w, r, "failed to list spread settings", err)
		return
	}
	render.JSON(w, r, api.ListResponse{Items: settings, Count: len(settings)})
}

// CreateSpreadSetting handles POST /api/spread-settings
func (h *ReferenceDataHandler) CreateSpreadSetting(w http.ResponseWriter, r *http.Request) {
	var req api.SpreadSettingRequest
	if !h.decode(w, r, &req) {
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	created, err := h.service.CreateSpreadSetting(r.Context(), quote.SpreadSetting{
		ProductType:    quote.ProductType(req.ProductType),
		CurrencyPairID: req.CurrencyPairID,
		GroupType:      quote.GroupType(req.GroupType),
		GroupValue:     req.GroupValue,
		BaseSpread:     req.BaseSpread,
		TenorSpreads:   req.TenorSpreads,
		IsActive:       active,
	})
	if err != nil {
		h.fail(w, r, "failed to create spread setting", err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, created)
}
