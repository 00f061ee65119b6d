package http

import (
	"log/slog"
	"net/http"

	"cloud.google.com/go/civil"

	apierrors "fxdesk/internal/errors"
	"fxdesk/internal/middleware"
	"fxdesk/internal/quote"
)

// optionalDate converts an already validated YYYY-MM-DD string.
func optionalDate(s string) *civil.Date {
	if s == "" {
		return nil
	}
	d, err := civil.ParseDate(s)
	if err != nil {
		return nil
	}
	return &d
}

// groupsFromQuery reads majorGroup, midGroup and subGroup.
func groupsFromQuery(r *http.Request) quote.CustomerGroups {
	q := r.URL.Query()
	return quote.CustomerGroups{
		Major: q.Get("majorGroup"),
		Mid:   q.Get("midGroup"),
		Sub:   q.Get("subGroup"),
	}
}

func productNames() []string {
	names := make([]string, len(quote.Products))
	for i, p := range quote.Products {
		names[i] = string(p)
	}
	return names
}

// handlerBase carries what every JSON handler needs.
type handlerBase struct {
	validation   *middleware.ValidationMiddleware
	query        *middleware.QueryParamValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

func newHandlerBase(name string, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) handlerBase {
	if logger == nil {
		logger = slog.Default()
	}
	if errorHandler == nil {
		errorHandler = apierrors.NewErrorHandler(logger, false)
	}
	return handlerBase{
		validation:   middleware.NewValidationMiddleware(logger, errorHandler),
		query:        middleware.NewQueryParamValidator(logger, errorHandler),
		logger:       logger.With(slog.String("handler", name)),
		errorHandler: errorHandler,
	}
}

// decode reads and validates a JSON body, writing the problem response on
// failure.
func (b *handlerBase) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := b.validation.DecodeAndValidate(r, v); err != nil {
		b.errorHandler.HandleError(w, r, err)
		return false
	}
	return true
}

// fail logs a failed operation with its request ID and writes the problem.
func (b *handlerBase) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	b.logger.WarnContext(r.Context(), msg,
		slog.String("request_id", middleware.GetRequestID(r.Context())),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()))
	b.errorHandler.HandleError(w, r, err)
}

// requireParam writes a validation problem when a query parameter is absent.
func (b *handlerBase) requireParam(w http.ResponseWriter, r *http.Request, param string) (string, bool) {
	v := r.URL.Query().Get(param)
	if v == "" {
		b.errorHandler.HandleError(w, r, apierrors.ErrValidation(param, param+" is required"))
		return "", false
	}
	return v, true
}
