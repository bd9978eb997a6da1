package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/stockresearcher/backend/internal/contracts"
	"github.com/stockresearcher/backend/internal/seasonality"
	"github.com/stockresearcher/backend/pkg/config"
	"github.com/stockresearcher/backend/pkg/logger"
)

// HeatmapHandler handles seasonality heatmap API endpoints.
type HeatmapHandler struct {
	service *seasonality.Service
	config  *config.Config
	logger  *logger.Logger
}

// NewHeatmapHandler creates a new heatmap handler.
func NewHeatmapHandler(service *seasonality.Service, cfg *config.Config, log *logger.Logger) *HeatmapHandler {
	return &HeatmapHandler{
		service: service,
		config:  cfg,
		logger:  log,
	}
}

// HeatmapResponse is the JSON shape of one heatmap. Aggregates and stats
// are keyed by month number and carry only months with data.
type HeatmapResponse struct {
	Ticker      string                           `json:"ticker"`
	Period      int                              `json:"period"`
	View        contracts.ViewMode               `json:"view"`
	Method      contracts.CalculationMethod      `json:"method"`
	Cells       []contracts.ReturnCell           `json:"cells"`
	Aggregates  map[int]contracts.MonthAggregate `json:"aggregates"`
	Stats       map[int]contracts.MonthStats     `json:"stats"`
	LastUpdated time.Time                        `json:"lastUpdated"`
}

// GetHeatmap returns the seasonality heatmap for one ticker.
// GET /api/stocks/{ticker}/heatmap?period=3&view=entry&method=openClose&years=26
func (h *HeatmapHandler) GetHeatmap(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ticker := mux.Vars(r)["ticker"]

	period := 12
	if s := r.URL.Query().Get("period"); s != "" {
		p, err := strconv.Atoi(s)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid period: "+s)
			return
		}
		period = p
	}

	view := contracts.ViewEntry
	if s := r.URL.Query().Get("view"); s != "" {
		v, err := contracts.ParseViewMode(s)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		view = v
	}

	method := contracts.MethodOpenClose
	if s := r.URL.Query().Get("method"); s != "" {
		m, err := contracts.ParseCalculationMethod(s)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		method = m
	}

	years := h.config.Seasonality.YearsBack
	if s := r.URL.Query().Get("years"); s != "" {
		if y, err := strconv.Atoi(s); err == nil && y > 0 {
			years = y
		}
	}

	query := seasonality.HeatmapQuery{
		Ticker:        ticker,
		HoldingPeriod: period,
		Method:        method,
		ViewMode:      view,
		YearsBack:     years,
	}
	if err := query.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.Heatmap(ctx, query)
	if err != nil {
		if errors.Is(err, contracts.ErrNoData) {
			respondError(w, http.StatusNotFound, "no price history for "+ticker)
			return
		}
		h.logger.WithError(err).WithFields(map[string]interface{}{
			"ticker": ticker,
			"period": period,
		}).Error("Failed to compute heatmap")
		respondError(w, http.StatusInternalServerError, "Failed to compute heatmap")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data": HeatmapResponse{
			Ticker:      result.Ticker,
			Period:      period,
			View:        view,
			Method:      method,
			Cells:       result.Cells,
			Aggregates:  result.Aggregates,
			Stats:       result.Stats,
			LastUpdated: result.LastUpdated,
		},
	})
}
