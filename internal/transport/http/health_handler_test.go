package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fxdesk/internal/calendar"
	"fxdesk/internal/config"
	"fxdesk/internal/infrastructure"
	"fxdesk/internal/services"
)

type mockPinger struct {
	mock.Mock
}

func (m *mockPinger) Ping(ctx context.Context) error {
	return m.Called().Error(0)
}

func newHealthRouter(t *testing.T, pingErr error) http.Handler {
	t.Helper()
	cal, err := services.NewCalendarService(calendar.NewDefault(), config.CalendarConfig{Timezone: "Asia/Seoul"},
		infrastructure.NoopMetrics(), testLogger())
	require.NoError(t, err)

	pinger := new(mockPinger)
	pinger.On("Ping").Return(pingErr)

	svc := services.NewHealthService(services.BuildInfo{Version: "0.3.0", BuildID: "abc123"}, pinger, cal, testLogger())
	r := chi.NewRouter()
	NewHealthHandler(svc, testLogger()).RegisterRoutes(r)
	return r
}

func TestHealthHandler_Endpoints(t *testing.T) {
	router := newHealthRouter(t, nil)

	tests := []struct {
		path       string
		wantStatus string
	}{
		{"/health", "ok"},
		{"/health/ready", "ready"},
		{"/health/live", "alive"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := doRequest(router, http.MethodGet, tt.path, "")
			require.Equal(t, http.StatusOK, w.Code)

			var resp map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantStatus, resp["status"])
		})
	}
}

func TestHealthHandler_NotReady(t *testing.T) {
	router := newHealthRouter(t, errors.New("database is locked"))

	w := doRequest(router, http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "not_ready")

	// Liveness does not depend on the store.
	w = doRequest(router, http.MethodGet, "/health/live", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthHandler_Version(t *testing.T) {
	router := newHealthRouter(t, nil)

	w := doRequest(router, http.MethodGet, "/version", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "0.3.0", resp["version"])
	assert.Equal(t, "abc123", resp["build_id"])
	assert.Contains(t, resp, "holidays")
}
