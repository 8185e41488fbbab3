package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rgehrsitz/refundcast/internal/calculation"
	"github.com/rgehrsitz/refundcast/internal/dataset"
	"github.com/rgehrsitz/refundcast/internal/domain"
	"github.com/rs/zerolog"
)

// maxBodyBytes caps the request body of POST /api/forecast
const maxBodyBytes = 8 << 20

// Handler serves the forecast API
type Handler struct {
	Engine  *calculation.ForecastEngine
	Log     zerolog.Logger
	Version string
}

// NewHandler creates a handler around engine. A nil engine gets a default one.
func NewHandler(engine *calculation.ForecastEngine, log zerolog.Logger, version string) *Handler {
	if engine == nil {
		engine = calculation.NewForecastEngine()
	}
	return &Handler{
		Engine:  engine,
		Log:     log.With().Str("component", "api").Logger(),
		Version: version,
	}
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Version: h.Version})
}

// Forecast runs a forecast over the records in the request body.
func (h *Handler) Forecast(w http.ResponseWriter, r *http.Request) {
	var req ForecastRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	mode, err := domain.ParseMode(req.Mode)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid mode", err)
		return
	}

	portfolio, err := req.portfolio()
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid records", err)
		return
	}

	result, err := h.Engine.Run(r.Context(), portfolio, domain.GranularityFromMonthly(req.Monthly), mode)
	if err != nil {
		if domain.IsClientError(err) {
			writeError(w, r, http.StatusBadRequest, "Forecast rejected", err)
			return
		}
		h.Log.Error().Err(err).Str("request_id", middleware.GetReqID(r.Context())).Msg("forecast failed")
		writeError(w, r, http.StatusInternalServerError, "Forecast failed", nil)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (req ForecastRequest) portfolio() (domain.Portfolio, error) {
	records := make([]domain.ClientRecord, 0, len(req.Records))
	for i, rec := range req.Records {
		record, err := dataset.ParseRecord([]string{rec.Start, rec.End, rec.Cost.String()})
		if err != nil {
			return domain.Portfolio{}, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, record)
	}
	return domain.NewPortfolio(records), nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	resp := ErrorResponse{
		Error:     message,
		RequestID: middleware.GetReqID(r.Context()),
	}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
