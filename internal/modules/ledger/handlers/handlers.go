// Package handlers provides HTTP handlers for a session's trade history.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/aristath/hermes/internal/modules/ledger"
	"github.com/aristath/hermes/internal/modules/simulation"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// defaultTradesLimit caps trade listings when no limit is given
const defaultTradesLimit = 100

// TransactionSource returns the trade log of a session
type TransactionSource interface {
	Transactions(sessionID string) ([]ledger.Transaction, error)
}

// Handler handles ledger HTTP requests
type Handler struct {
	source TransactionSource
	log    zerolog.Logger
}

// NewHandler creates a new ledger handler
func NewHandler(source TransactionSource, log zerolog.Logger) *Handler {
	return &Handler{
		source: source,
		log:    log.With().Str("handler", "ledger").Logger(),
	}
}

// HandleGetTrades handles GET /api/ledger/{sessionId}/trades?side=BUY&limit=20
func (h *Handler) HandleGetTrades(w http.ResponseWriter, r *http.Request) {
	limit := defaultTradesLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil && parsedLimit > 0 {
			limit = parsedLimit
		}
	}

	var side ledger.TradeSide
	if sideStr := r.URL.Query().Get("side"); sideStr != "" {
		parsed, err := ledger.TradeSideFromString(sideStr)
		if err != nil {
			h.writeJSON(w, http.StatusBadRequest, map[string]interface{}{"error": err.Error()})
			return
		}
		side = parsed
	}

	transactions, ok := h.load(w, chi.URLParam(r, "sessionId"))
	if !ok {
		return
	}

	trades := ledger.Filter(transactions, side, limit)
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"trades": trades,
			"count":  len(trades),
			"total":  len(transactions),
		},
		"metadata": metadata(),
	})
}

// HandleGetTradesSummary handles GET /api/ledger/{sessionId}/trades/summary
func (h *Handler) HandleGetTradesSummary(w http.ResponseWriter, r *http.Request) {
	transactions, ok := h.load(w, chi.URLParam(r, "sessionId"))
	if !ok {
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":     ledger.Summarize(transactions),
		"metadata": metadata(),
	})
}

func (h *Handler) load(w http.ResponseWriter, sessionID string) ([]ledger.Transaction, bool) {
	transactions, err := h.source.Transactions(sessionID)
	if err == nil {
		return transactions, true
	}

	status := http.StatusInternalServerError
	if errors.Is(err, simulation.ErrSessionNotFound) {
		status = http.StatusNotFound
	} else {
		h.log.Error().Err(err).Str("session_id", sessionID).Msg("Failed to load transactions")
	}
	h.writeJSON(w, status, map[string]interface{}{
		"error":    err.Error(),
		"metadata": metadata(),
	})
	return nil, false
}

func metadata() map[string]interface{} {
	return map[string]interface{}{
		"timestamp": time.Now().Format(time.RFC3339),
	}
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
