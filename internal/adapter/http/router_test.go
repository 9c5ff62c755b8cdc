package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/payengine/internal/adapter/http/dto"
	"github.com/iho/payengine/internal/adapter/http/handler"
	apimiddleware "github.com/iho/payengine/internal/adapter/http/middleware"
	"github.com/iho/payengine/internal/domain"
	"github.com/iho/payengine/internal/infrastructure/metrics"
	"github.com/iho/payengine/internal/usecase"
)

func newTestRouter(t *testing.T, opts ...func(*RouterConfig)) http.Handler {
	t.Helper()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.Accounts.Set(1)

	view := usecase.NewSnapshotView(&usecase.ReplayResult{
		RunID: "run-1",
		Accounts: []domain.AccountSnapshot{{
			Client:    4,
			Available: decimal.RequireFromString("10"),
			Held:      decimal.Zero,
			Total:     decimal.RequireFromString("10"),
		}},
	})

	cfg := RouterConfig{
		AccountHandler: handler.NewAccountHandler(view),
		HealthHandler:  handler.NewHealthHandler(nil),
		Logger:         zerolog.Nop(),
		Registry:       reg,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return NewRouter(cfg)
}

func get(router http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestNewRouter_HealthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	assert.Equal(t, http.StatusOK, get(router, "/health").Code)
	assert.Equal(t, http.StatusOK, get(router, "/ready").Code)
}

func TestNewRouter_Accounts(t *testing.T) {
	router := newTestRouter(t)

	rec := get(router, "/api/v1/accounts")
	require.Equal(t, http.StatusOK, rec.Code)

	var list dto.SnapshotResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Accounts, 1)
	assert.Equal(t, "10.0000", list.Accounts[0].Total)

	rec = get(router, "/api/v1/accounts/4")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, http.StatusNotFound, get(router, "/api/v1/accounts/5").Code)
	assert.Equal(t, http.StatusBadRequest, get(router, "/api/v1/accounts/x").Code)
}

func TestNewRouter_MetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	get(router, "/api/v1/accounts/4")

	rec := get(router, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "payengine_accounts 1")
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",path="/api/v1/accounts/:client",status="200"} 1`)
}

func TestNewRouter_RejectsWrites(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/accounts", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestNewRouter_RateLimiterGuardsAPI(t *testing.T) {
	router := newTestRouter(t, func(cfg *RouterConfig) {
		cfg.RateLimiter = apimiddleware.NewRateLimiter(1, 1)
	})

	assert.Equal(t, http.StatusOK, get(router, "/api/v1/accounts").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(router, "/api/v1/accounts").Code)

	// Health checks are not limited.
	assert.Equal(t, http.StatusOK, get(router, "/health").Code)
	assert.Equal(t, http.StatusOK, get(router, "/health").Code)
}

type panickingReader struct{}

func (panickingReader) RunID() string { return "run-1" }

func (panickingReader) Accounts() []domain.AccountSnapshot { panic("snapshot unavailable") }

func (panickingReader) Account(domain.ClientID) (domain.AccountSnapshot, error) {
	panic("snapshot unavailable")
}

func TestNewRouter_CountsRecoveredPanics(t *testing.T) {
	router := newTestRouter(t, func(cfg *RouterConfig) {
		cfg.AccountHandler = handler.NewAccountHandler(panickingReader{})
	})

	assert.Equal(t, http.StatusInternalServerError, get(router, "/api/v1/accounts").Code)

	rec := get(router, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",path="/api/v1/accounts",status="500"} 1`)
}
