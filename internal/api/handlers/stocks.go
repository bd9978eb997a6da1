package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/stockresearcher/backend/internal/contracts"
	"github.com/stockresearcher/backend/pkg/logger"
)

// StockHandler handles tracked-universe API endpoints.
type StockHandler struct {
	stocks contracts.StockRepository
	logger *logger.Logger
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(stocks contracts.StockRepository, log *logger.Logger) *StockHandler {
	return &StockHandler{
		stocks: stocks,
		logger: log,
	}
}

// ListStocks returns the tracked-ticker universe.
// GET /api/stocks
func (h *StockHandler) ListStocks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stocks, err := h.stocks.ListTracked(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list stocks")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve stocks")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"count":  len(stocks),
			"stocks": stocks,
		},
	})
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
