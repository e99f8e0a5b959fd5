package server

import (
	"time"

	"github.com/rpgo/retirement-runway/internal/calculation"
	"github.com/rpgo/retirement-runway/internal/domain"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Code      string    `json:"code"`
	Fields    []string  `json:"fields,omitempty"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthResponse reports liveness.
type HealthResponse struct {
	Status    string    `json:"status"`
	Version   string    `json:"version"`
	DataDir   string    `json:"data_dir"`
	Timestamp time.Time `json:"timestamp"`
}

// ConfigResponse wraps the stored retirement configuration. Config is nil
// until one has been saved.
type ConfigResponse struct {
	Configured bool                  `json:"configured"`
	Config     *domain.Configuration `json:"config"`
}

// SimulationResponse is the envelope around one simulation result.
type SimulationResponse struct {
	CalculationID string                   `json:"calculation_id"`
	Timestamp     time.Time                `json:"timestamp"`
	Scenario      string                   `json:"scenario,omitempty"`
	Result        *domain.SimulationResult `json:"result"`
}

// ComparisonResponse is the envelope around an entity comparison.
type ComparisonResponse struct {
	CalculationID string                       `json:"calculation_id"`
	Timestamp     time.Time                    `json:"timestamp"`
	Comparison    calculation.EntityComparison `json:"comparison"`
}
