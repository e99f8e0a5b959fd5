package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/retirement-runway/internal/config"
	"github.com/rpgo/retirement-runway/internal/domain"
	"github.com/rpgo/retirement-runway/internal/storage"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store, err := storage.NewStore(t.TempDir())
	require.NoError(t, err)
	srv, err := NewServer(DefaultConfig(), Dependencies{Store: store})
	require.NoError(t, err)
	return srv
}

func do(t *testing.T, srv *Server, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func exampleBody(t *testing.T) []byte {
	t.Helper()
	data, err := json.Marshal(config.NewInputParser().CreateExampleConfiguration())
	require.NoError(t, err)
	return data
}

func TestNewServerRequiresStore(t *testing.T) {
	_, err := NewServer(DefaultConfig(), Dependencies{})
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	rec := do(t, srv, "GET", "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Len(t, rec.Header().Get("X-Request-ID"), 8)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.NotEmpty(t, resp.DataDir)
}

func TestConfigLifecycle(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, "GET", "/api/retirement/config", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var empty ConfigResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &empty))
	assert.False(t, empty.Configured)
	assert.Nil(t, empty.Config)

	rec = do(t, srv, "POST", "/api/retirement/config", exampleBody(t))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, srv, "GET", "/api/retirement/config", nil)
	var stored ConfigResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stored))
	require.True(t, stored.Configured)
	require.NotNil(t, stored.Config.Profile.BirthYear)
	assert.Equal(t, 1970, *stored.Config.Profile.BirthYear)
	assert.Equal(t, "v1", stored.Config.ActiveAssumptionID)

	rec = do(t, srv, "DELETE", "/api/retirement/config", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, srv, "GET", "/api/retirement/config", nil)
	var gone ConfigResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &gone))
	assert.False(t, gone.Configured)
}

func TestSaveConfigRejectsMalformed(t *testing.T) {
	srv := newTestServer(t)
	rec := do(t, srv, "POST", "/api/retirement/config", []byte(`{"initial_assets": {"corp": -5}}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "invalid_configuration", resp.Code)
	assert.Len(t, resp.RequestID, 8)
}

func TestSimulateWithoutConfigReportsMissingSettings(t *testing.T) {
	srv := newTestServer(t)
	rec := do(t, srv, "GET", "/api/retirement/simulate", nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "missing_settings", resp.Code)
	assert.Contains(t, resp.Message, "missing settings: target_monthly_cashflow")
	assert.Contains(t, resp.Fields, "birth_year")

	metricsBody := do(t, srv, "GET", "/metrics", nil).Body.String()
	assert.Contains(t, metricsBody, `runway_simulation_errors_total{error_type="configuration"} 1`)
}

func TestSimulateStoredConfig(t *testing.T) {
	srv := newTestServer(t)
	require.Equal(t, http.StatusOK, do(t, srv, "POST", "/api/retirement/config", exampleBody(t)).Code)

	rec := do(t, srv, "GET", "/api/retirement/simulate", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp SimulationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.CalculationID)
	assert.Empty(t, resp.Scenario)
	require.NotNil(t, resp.Result)
	assert.True(t, resp.Result.Summary.IsPermanent)
	assert.Equal(t, 30, resp.Result.Summary.TotalSurvivalYears)
	assert.Len(t, resp.Result.MonthlyData, domain.SnapshotRetentionMonths)
	assert.NotEmpty(t, resp.Result.Assumptions)

	metricsBody := do(t, srv, "GET", "/metrics", nil)
	assert.Equal(t, http.StatusOK, metricsBody.Code)
	assert.Contains(t, metricsBody.Body.String(), `runway_simulations_total{scenario="BASE"} 1`)
}

func TestSimulateBearScenario(t *testing.T) {
	srv := newTestServer(t)
	rec := do(t, srv, "POST", "/api/retirement/simulate?scenario=bear", exampleBody(t))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp SimulationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "BEAR", resp.Scenario)

	var kinds []domain.SignalKind
	for _, s := range resp.Result.Summary.Signals {
		kinds = append(kinds, s.Kind)
	}
	assert.Contains(t, kinds, domain.SignalMarketPanic)

	// the ad-hoc body is not persisted
	cfg := do(t, srv, "GET", "/api/retirement/config", nil)
	assert.True(t, strings.Contains(cfg.Body.String(), `"configured":false`))
}

func TestCompare(t *testing.T) {
	srv := newTestServer(t)
	require.Equal(t, http.StatusOK, do(t, srv, "POST", "/api/retirement/config", exampleBody(t)).Code)

	rec := do(t, srv, "GET", "/api/retirement/compare", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp ComparisonResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, domain.EntityCorp, resp.Comparison.Preferred)
	assert.True(t, resp.Comparison.Assets.IsPositive())
}

func TestNotFound(t *testing.T) {
	srv := newTestServer(t)
	rec := do(t, srv, "GET", "/api/retirement/unknown", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "endpoint_not_found", resp.Code)
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest("OPTIONS", "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
