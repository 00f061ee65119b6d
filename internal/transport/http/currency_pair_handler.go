package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "fxdesk/internal/errors"
	"fxdesk/internal/services"
	"fxdesk/internal/validation"
	api "fxdesk/pkg/contracts/api/v1"
)

// DefaultMaxUploadBytes caps swap point workbooks when no limit is configured.
const DefaultMaxUploadBytes = 10 << 20

// CurrencyPairHandler serves currency pairs and their swap point curves
type CurrencyPairHandler struct {
	handlerBase
	pairs          services.PairReader
	pricing        PricingServiceInterface
	swapPoints     SwapPointServiceInterface
	files          *validation.FileValidator
	maxUploadBytes int64
}

// NewCurrencyPairHandler creates a new currency pair handler
func NewCurrencyPairHandler(pairs services.PairReader, pricing PricingServiceInterface, swapPoints SwapPointServiceInterface,
	maxUploadBytes int64, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *CurrencyPairHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	base := newHandlerBase("currency_pairs", logger, errorHandler)
	return &CurrencyPairHandler{
		handlerBase:    base,
		pairs:          pairs,
		pricing:        pricing,
		swapPoints:     swapPoints,
		files:          validation.NewFileValidator(base.logger),
		maxUploadBytes: maxUploadBytes,
	}
}

// Routes returns the currency pair routes
func (h *CurrencyPairHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.List)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/curve", h.Curve)
		r.Get("/swap-points", h.SwapPoints)
		r.Post("/swap-points/upload", h.Upload)
	})

	return r
}

// List handles GET /api/currency-pairs?active=true
func (h *CurrencyPairHandler) List(w http.ResponseWriter, r *http.Request) {
	active, ok := h.query.ValidateEnum(w, r, "active", []string{"true", "false"}, "true")
	if !ok {
		return
	}

	pairs, err := h.pairs.ListCurrencyPairs(r.Context(), active == "true")
	if err != nil {
		h.fail(w, r, "failed to list currency pairs", err)
		return
	}
	render.JSON(w, r, api.ListResponse{Items: pairs, Count: len(pairs)})
}

// Curve handles GET /api/currency-pairs/{id}/curve
func (h *CurrencyPairHandler) Curve(w http.ResponseWriter, r *http.Request) {
	pc, err := h.pricing.PairCurve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "failed to build curve", err)
		return
	}
	render.JSON(w, r, pc)
}

// SwapPoints handles GET /api/currency-pairs/{id}/swap-points
func (h *CurrencyPairHandler) SwapPoints(w http.ResponseWriter, r *http.Request) {
	records, err := h.swapPoints.List(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "failed to list swap points", err)
		return
	}
	render.JSON(w, r, api.ListResponse{Items: records, Count: len(records)})
}

// Upload handles POST /api/currency-pairs/{id}/swap-points/upload. The
// workbook is sent as the multipart field "file"; "uploadedBy" is optional.
func (h *CurrencyPairHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.errorHandler.HandleError(w, r, apierrors.New(http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Workbook exceeds the upload limit"))
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.UploadError(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", "an .xlsx file is required in field \"file\""))
		return
	}
	defer file.Close()

	if err := h.files.ValidateWorkbookName(header.Filename); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", err.Error()))
		return
	}

	uploadedBy := strings.TrimSpace(r.FormValue("uploadedBy"))
	if uploadedBy == "" {
		uploadedBy = "api"
	}

	res, err := h.swapPoints.Upload(r.Context(), chi.URLParam(r, "id"), file, uploadedBy)
	if err != nil {
		h.fail(w, r, "swap point upload failed", err)
		return
	}

	h.logger.InfoContext(r.Context(), "swap point workbook accepted",
		slog.String("file", header.Filename),
		slog.String("symbol", res.Symbol),
		slog.Int("rows", res.Count))

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, res)
}
