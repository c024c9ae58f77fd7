// Package handlers provides HTTP handlers for information-mode market data.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/aristath/hermes/internal/domain"
	"github.com/aristath/hermes/internal/modules/news"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles market data HTTP requests
type Handler struct {
	provider domain.MarketDataProvider
	log      zerolog.Logger
}

// NewHandler creates a new market data handler
func NewHandler(provider domain.MarketDataProvider, log zerolog.Logger) *Handler {
	return &Handler{
		provider: provider,
		log:      log.With().Str("handler", "marketdata").Logger(),
	}
}

// HandleGetQuote handles GET /api/market/{symbol}/quote
func (h *Handler) HandleGetQuote(w http.ResponseWriter, r *http.Request) {
	symbol := domain.NormalizeSymbol(chi.URLParam(r, "symbol"))

	quote, err := h.provider.GetQuote(r.Context(), symbol)
	if err != nil {
		h.log.Warn().Err(err).Str("symbol", symbol).Msg("Failed to get quote")
		http.Error(w, "quote unavailable", http.StatusBadGateway)
		return
	}

	h.writeJSON(w, http.StatusOK, envelope(quote))
}

// HandleGetOverview handles GET /api/market/{symbol}/overview
func (h *Handler) HandleGetOverview(w http.ResponseWriter, r *http.Request) {
	symbol := domain.NormalizeSymbol(chi.URLParam(r, "symbol"))

	overview, err := h.provider.GetOverview(r.Context(), symbol)
	if err != nil {
		h.log.Warn().Err(err).Str("symbol", symbol).Msg("Failed to get overview")
		http.Error(w, "overview unavailable", http.StatusBadGateway)
		return
	}

	h.writeJSON(w, http.StatusOK, envelope(map[string]interface{}{
		"overview":          overview,
		"industryAveragePE": news.IndustryAverage(overview.Sector),
	}))
}

// HandleGetHistory handles GET /api/market/{symbol}/history?full=true
func (h *Handler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	symbol := domain.NormalizeSymbol(chi.URLParam(r, "symbol"))

	full := false
	if v := r.URL.Query().Get("full"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			http.Error(w, "full must be a boolean", http.StatusBadRequest)
			return
		}
		full = parsed
	}

	candles, err := h.provider.GetHistory(r.Context(), symbol, full)
	if err != nil {
		h.log.Warn().Err(err).Str("symbol", symbol).Msg("Failed to get history")
		http.Error(w, "history unavailable", http.StatusBadGateway)
		return
	}

	h.writeJSON(w, http.StatusOK, envelope(map[string]interface{}{
		"symbol":  symbol,
		"candles": candles,
		"count":   len(candles),
	}))
}

// HandleGetNews handles GET /api/market/{symbol}/news
func (h *Handler) HandleGetNews(w http.ResponseWriter, r *http.Request) {
	symbol := domain.NormalizeSymbol(chi.URLParam(r, "symbol"))

	items, err := h.provider.GetNews(r.Context(), symbol)
	if err != nil {
		h.log.Warn().Err(err).Str("symbol", symbol).Msg("Failed to get news")
		items = []domain.NewsItem{}
	}

	h.writeJSON(w, http.StatusOK, envelope(map[string]interface{}{
		"items":     items,
		"sentiment": news.OverallSentiment(items),
	}))
}

func envelope(data interface{}) map[string]interface{} {
	return map[string]interface{}{
		"data": data,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
