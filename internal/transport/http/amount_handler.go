package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"golang.org/x/text/language"

	"fxdesk/internal/amount"
	apierrors "fxdesk/internal/errors"
	api "fxdesk/pkg/contracts/api/v1"
)

// AmountHandler rounds, formats and validates trade amounts
type AmountHandler struct {
	handlerBase
}

// NewAmountHandler creates a new amount handler
func NewAmountHandler(logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *AmountHandler {
	return &AmountHandler{handlerBase: newHandlerBase("amounts", logger, errorHandler)}
}

// Routes returns the amount routes
func (h *AmountHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Post("/format", h.Format)
	r.Post("/validate", h.Validate)
	return r
}

// Format handles POST /api/amounts/format
func (h *AmountHandler) Format(w http.ResponseWriter, r *http.Request) {
	var req api.AmountFormatRequest
	if !h.decode(w, r, &req) {
		return
	}

	code, err := amount.ParseCurrency(req.Currency)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	resp := api.AmountFormatResponse{
		Currency:  code,
		Amount:    amount.Calculate(req.Amount, code),
		Formatted: amount.AddThousandSeparator(amount.Format(req.Amount, code)),
	}

	if req.Locale != "" {
		tag, err := language.Parse(req.Locale)
		if err != nil {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("locale", "locale must be a BCP 47 language tag"))
			return
		}
		resp.Display = amount.Display(req.Amount, code, tag)
	}

	render.JSON(w, r, resp)
}

// Validate handles POST /api/amounts/validate. An unacceptable amount is a
// normal answer with valid=false, not an error.
func (h *AmountHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req api.AmountValidateRequest
	if !h.decode(w, r, &req) {
		return
	}

	code, err := amount.ParseCurrency(req.Currency)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	resp := api.AmountValidateResponse{Currency: code, Value: req.Value}
	d, err := amount.Parse(req.Value, code)
	var appErr *apierrors.AppError
	switch {
	case errors.As(err, &appErr):
		resp.Message = appErr.Message
	case err != nil:
		resp.Message = err.Error()
	default:
		resp.Valid = true
		resp.Normalized = d.String()
	}

	render.JSON(w, r, resp)
}
