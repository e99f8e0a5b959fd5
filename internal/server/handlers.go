package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rpgo/retirement-runway/internal/calculation"
	"github.com/rpgo/retirement-runway/internal/config"
	"github.com/rpgo/retirement-runway/internal/domain"
	"github.com/rpgo/retirement-runway/internal/metrics"
	"github.com/rpgo/retirement-runway/internal/output"
	"github.com/rpgo/retirement-runway/internal/storage"
)

const maxBodyBytes = 1 << 20

// handlers manages all HTTP endpoint handlers
type handlers struct {
	store   *storage.Store
	parser  *config.InputParser
	engine  *calculation.ProjectionEngine
	stress  *calculation.StressTestEngine
	metrics *metrics.Registry
	logger  zerolog.Logger
}

func newHandlers(deps Dependencies) *handlers {
	return &handlers{
		store:   deps.Store,
		parser:  deps.Parser,
		engine:  deps.Engine,
		stress:  deps.Stress,
		metrics: deps.Metrics,
		logger:  deps.Logger,
	}
}

// writeJSON writes JSON response with proper error handling
func (h *handlers) writeJSON(w http.ResponseWriter, status int, data any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode response")
	}
}

// writeError writes standardized error response
func (h *handlers) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, fields ...string) {
	h.writeJSON(w, status, ErrorResponse{
		Error:     http.StatusText(status),
		Message:   message,
		Code:      code,
		Fields:    fields,
		RequestID: RequestID(r.Context()),
		Timestamp: time.Now().UTC(),
	})
}

// NotFound handles 404 responses
func (h *handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	h.writeError(w, r, http.StatusNotFound, "endpoint_not_found",
		"The requested endpoint does not exist")
}

// Health handles GET /health
func (h *handlers) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Version:   Version,
		DataDir:   h.store.Dir(),
		Timestamp: time.Now().UTC(),
	})
}

// loadConfig returns the stored configuration, or an empty one when none has
// been saved so that simulation reports every missing setting.
func (h *handlers) loadConfig() (*domain.Configuration, bool, error) {
	var cfg domain.Configuration
	err := h.store.Load(storage.KeyRetirementConfig, &cfg)
	if errors.Is(err, storage.ErrNotFound) {
		return &domain.Configuration{}, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &cfg, true, nil
}

// GetConfig handles GET /api/retirement/config
func (h *handlers) GetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, ok, err := h.loadConfig()
	if err != nil {
		h.writeError(w, r, http.StatusInternalServerError, "storage_error", err.Error())
		return
	}
	resp := ConfigResponse{Configured: ok}
	if ok {
		resp.Config = cfg
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handlers) parseBody(w http.ResponseWriter, r *http.Request) (*domain.Configuration, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.writeError(w, r, http.StatusRequestEntityTooLarge, "body_too_large", err.Error())
		return nil, false
	}
	cfg, err := h.parser.Parse(data)
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, "invalid_configuration", err.Error())
		return nil, false
	}
	return cfg, true
}

// SaveConfig handles POST/PUT /api/retirement/config. Incomplete settings are
// accepted here; they are reported when a simulation is requested.
func (h *handlers) SaveConfig(w http.ResponseWriter, r *http.Request) {
	cfg, ok := h.parseBody(w, r)
	if !ok {
		return
	}
	if err := h.store.Save(storage.KeyRetirementConfig, cfg); err != nil {
		h.writeError(w, r, http.StatusInternalServerError, "storage_error", err.Error())
		return
	}
	h.logger.Info().Str("request_id", RequestID(r.Context())).Msg("retirement configuration saved")
	h.writeJSON(w, http.StatusOK, ConfigResponse{Configured: true, Config: cfg})
}

// DeleteConfig handles DELETE /api/retirement/config
func (h *handlers) DeleteConfig(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(storage.KeyRetirementConfig); err != nil {
		h.writeError(w, r, http.StatusInternalServerError, "storage_error", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SimulateStored handles GET /api/retirement/simulate?scenario=
func (h *handlers) SimulateStored(w http.ResponseWriter, r *http.Request) {
	cfg, _, err := h.loadConfig()
	if err != nil {
		h.metrics.ObserveError("storage")
		h.writeError(w, r, http.StatusInternalServerError, "storage_error", err.Error())
		return
	}
	h.simulate(w, r, cfg)
}

// SimulateBody handles POST /api/retirement/simulate with a configuration body
func (h *handlers) SimulateBody(w http.ResponseWriter, r *http.Request) {
	cfg, ok := h.parseBody(w, r)
	if !ok {
		h.metrics.ObserveError("invalid_body")
		return
	}
	h.simulate(w, r, cfg)
}

func (h *handlers) simulate(w http.ResponseWriter, r *http.Request, cfg *domain.Configuration) {
	start := time.Now()
	assets, params, err := h.parser.BuildParams(cfg)
	if err != nil {
		h.writeSimulationError(w, r, err)
		return
	}
	if scenario := r.URL.Query().Get("scenario"); scenario != "" {
		params = h.stress.ApplyScenario(params, scenario)
	}

	result, err := h.engine.Run30YearSimulation(r.Context(), assets, params)
	if err != nil {
		h.writeSimulationError(w, r, err)
		return
	}
	result.Assumptions = output.GenerateAssumptions(params)
	h.metrics.ObserveResult(result, time.Since(start))

	h.writeJSON(w, http.StatusOK, SimulationResponse{
		CalculationID: uuid.NewString(),
		Timestamp:     time.Now().UTC(),
		Scenario:      result.Summary.ActiveStressScenario,
		Result:        result,
	})
}

func (h *handlers) writeSimulationError(w http.ResponseWriter, r *http.Request, err error) {
	var ce *domain.ConfigurationError
	switch {
	case errors.As(err, &ce):
		h.metrics.ObserveError("configuration")
		h.writeError(w, r, http.StatusBadRequest, "missing_settings", ce.Error(), ce.Fields()...)
	case errors.Is(err, context.DeadlineExceeded):
		h.metrics.ObserveError("timeout")
		h.writeError(w, r, http.StatusGatewayTimeout, "timeout", err.Error())
	case errors.Is(err, context.Canceled):
		h.metrics.ObserveError("canceled")
		h.writeError(w, r, http.StatusServiceUnavailable, "canceled", err.Error())
	default:
		h.metrics.ObserveError("internal")
		h.logger.Error().Err(err).Str("request_id", RequestID(r.Context())).Msg("simulation failed")
		h.writeError(w, r, http.StatusInternalServerError, "simulation_failed", err.Error())
	}
}

// Compare handles GET /api/retirement/compare: corporate versus personal
// holding of the stored corporate assets.
func (h *handlers) Compare(w http.ResponseWriter, r *http.Request) {
	cfg, _, err := h.loadConfig()
	if err != nil {
		h.writeError(w, r, http.StatusInternalServerError, "storage_error", err.Error())
		return
	}
	assets, params, err := h.parser.BuildParams(cfg)
	if err != nil {
		h.writeSimulationError(w, r, err)
		return
	}
	tax := calculation.NewTaxEngine(params.Tax)
	h.writeJSON(w, http.StatusOK, ComparisonResponse{
		CalculationID: uuid.NewString(),
		Timestamp:     time.Now().UTC(),
		Comparison:    tax.CompareParams(assets.Corp, params),
	})
}
