package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fxdesk/internal/infrastructure"
)

func newTestHandler() *ErrorHandler {
	return NewErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), false)
}

func TestErrorHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		wantDetail string
		wantCode   string
	}{
		{
			name:       "settlement before spot",
			err:        NewInvalidSettlementError("settlement before spot"),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeInvalidSettlement,
			wantDetail: "settlement before spot",
			wantCode:   string(ErrTypeInvalidSettlement),
		},
		{
			name:       "date before spot",
			err:        NewUnpriceableDateError("date before spot not priceable"),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeUnpriceableDate,
			wantDetail: "date before spot not priceable",
			wantCode:   string(ErrTypeUnpriceableDate),
		},
		{
			name:       "short curve",
			err:        fmt.Errorf("pricing: %w", NewInsufficientCurveDataError("insufficient swap point data")),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeInsufficientCurveData,
			wantDetail: "insufficient swap point data",
			wantCode:   string(ErrTypeInsufficientCurveData),
		},
		{
			name:       "missing base rate",
			err:        NewMissingBaseRateError("no base rate"),
			wantStatus: http.StatusNotFound,
			wantType:   TypeMissingBaseRate,
			wantDetail: "no base rate",
			wantCode:   string(ErrTypeMissingBaseRate),
		},
		{
			name:       "invalid amount",
			err:        NewInvalidAmountError("KRW amount must be an integer"),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeInvalidAmount,
			wantDetail: "KRW amount must be an integer",
			wantCode:   string(ErrTypeInvalidAmount),
		},
		{
			name:       "storage failure is masked",
			err:        NewStorageError("insert swap points", fmt.Errorf("disk I/O error")),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeStorage,
			wantDetail: "An unexpected error occurred while processing your request",
			wantCode:   string(ErrTypeStorage),
		},
		{
			name:       "api error",
			err:        ErrCurrencyPairNotFound,
			wantStatus: http.StatusNotFound,
			wantType:   TypeNotFound,
			wantDetail: "Currency pair not found",
			wantCode:   "CURRENCY_PAIR_NOT_FOUND",
		},
		{
			name:       "unknown pair from the store",
			err:        fmt.Errorf("load curve: %w", NewCurrencyPairNotFoundError("EUR/KRW")),
			wantStatus: http.StatusNotFound,
			wantType:   TypeNotFound,
			wantDetail: "Currency pair not found",
			wantCode:   "CURRENCY_PAIR_NOT_FOUND",
		},
		{
			name:       "upload error",
			err:        UploadError(fmt.Errorf("Excel file is empty")),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeUploadFailed,
			wantDetail: "Failed to process swap point upload",
			wantCode:   "UPLOAD_FAILED",
		},
		{
			name:       "deadline",
			err:        context.DeadlineExceeded,
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
			wantDetail: "The request took too long to process and was cancelled",
		},
		{
			name:       "unknown",
			err:        fmt.Errorf("boom"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
			wantDetail: "An unexpected error occurred while processing your request",
		},
	}

	h := newTestHandler()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/forward/calculate", nil)
			req = req.WithContext(infrastructure.WithTraceID(req.Context(), "trace-abc"))
			rec := httptest.NewRecorder()

			h.HandleError(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantType, body["type"])
			assert.Equal(t, float64(tt.wantStatus), body["status"])
			assert.Equal(t, tt.wantDetail, body["detail"])
			assert.Equal(t, "/api/forward/calculate", body["instance"])
			assert.Equal(t, "trace-abc", body["trace_id"])
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, body["error_code"])
			}
		})
	}
}

func TestErrorHandler_AppErrorContext(t *testing.T) {
	h := newTestHandler()
	req := httptest.NewRequest(http.MethodPost, "/api/rates/mar", nil)

	err := NewMissingBaseRateError("no base rate").WithContext("currency_pair_id", 1)
	problem := h.ErrorToProblem(err, req)

	assert.Equal(t, http.StatusNotFound, problem.Status)
	assert.Equal(t, map[string]interface{}{"currency_pair_id": 1}, problem.Extensions["context"])
}

func TestErrorHandler_NotFoundAndMethodNotAllowed(t *testing.T) {
	h := newTestHandler()

	rec := httptest.NewRecorder()
	h.NotFound(rec, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.MethodNotAllowed(rec, httptest.NewRequest(http.MethodDelete, "/api/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, rec.Body.String(), "Method DELETE is not allowed")
}

func TestErrorHandler_HandlePanic(t *testing.T) {
	h := NewErrorHandler(nil, true)
	rec := httptest.NewRecorder()

	h.HandlePanic(rec, httptest.NewRequest(http.MethodGet, "/", nil), "kaboom")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "kaboom", body["panic"])
	assert.NotEmpty(t, body["stack"])
}

func TestTypeOf(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", NewParsingError("bad row", nil))

	assert.Equal(t, ErrTypeParsing, TypeOf(wrapped))
	assert.True(t, IsType(wrapped, ErrTypeParsing))
	assert.False(t, IsType(wrapped, ErrTypeStorage))
	assert.Equal(t, ErrorType(""), TypeOf(fmt.Errorf("plain")))
}
