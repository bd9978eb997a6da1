package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/stockresearcher/backend/internal/contracts"
	"github.com/stockresearcher/backend/internal/screener"
	"github.com/stockresearcher/backend/pkg/config"
	"github.com/stockresearcher/backend/pkg/logger"
)

// ScreenerHandler handles universe screening API endpoints.
type ScreenerHandler struct {
	screener *screener.Screener
	config   *config.Config
	logger   *logger.Logger
}

// NewScreenerHandler creates a new screener handler.
func NewScreenerHandler(s *screener.Screener, cfg *config.Config, log *logger.Logger) *ScreenerHandler {
	return &ScreenerHandler{
		screener: s,
		config:   cfg,
		logger:   log,
	}
}

// GetScreener scans the tracked universe for seasonality patterns.
// GET /api/screener?minWinRate=60&minAvgPerMonth=1.5&minYears=10&periods=1,3,6,12&months=1,2&method=maxMax&limit=50
func (h *ScreenerHandler) GetScreener(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	filter := screener.Filter{
		Method: contracts.MethodOpenClose,
		Limit:  100,
	}

	if s := q.Get("minWinRate"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid minWinRate: "+s)
			return
		}
		filter.MinWinRate = v
	}

	if s := q.Get("minAvgPerMonth"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid minAvgPerMonth: "+s)
			return
		}
		filter.MinAvgPerMonth = v
	}

	if s := q.Get("minYears"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid minYears: "+s)
			return
		}
		filter.MinYears = v
	}

	if s := q.Get("periods"); s != "" {
		periods, err := parseIntList(s)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid periods: "+s)
			return
		}
		filter.HoldingPeriods = periods
	}

	if s := q.Get("months"); s != "" {
		months, err := parseIntList(s)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid months: "+s)
			return
		}
		filter.Months = months
	}

	if s := q.Get("method"); s != "" {
		m, err := contracts.ParseCalculationMethod(s)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		filter.Method = m
	}

	if s := q.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			respondError(w, http.StatusBadRequest, "invalid limit: "+s)
			return
		}
		filter.Limit = v
	}
	if max := h.config.Seasonality.ScreenerMaxLimit; filter.Limit == 0 || filter.Limit > max {
		filter.Limit = max
	}

	if err := filter.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.screener.Scan(ctx, filter)
	if err != nil {
		h.logger.WithError(err).Error("Screener scan failed")
		respondError(w, http.StatusInternalServerError, "Screener scan failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    result,
	})
}

// parseIntList parses a comma-separated integer list like "1,3,6".
func parseIntList(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	values := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}
