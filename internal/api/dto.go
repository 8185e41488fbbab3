package api

import (
	"github.com/shopspring/decimal"
)

// ForecastRequest is the body of POST /api/forecast
type ForecastRequest struct {
	Monthly bool        `json:"monthly"`
	Mode    string      `json:"mode,omitempty"`
	Records []RecordDTO `json:"records"`
}

// RecordDTO is one client subscription. Dates accept the dataset layouts.
type RecordDTO struct {
	Start string          `json:"start"`
	End   string          `json:"end"`
	Cost  decimal.Decimal `json:"cost"`
}

// HealthResponse is returned by GET /healthz
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error     string `json:"error"`
	Details   string `json:"details,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}
