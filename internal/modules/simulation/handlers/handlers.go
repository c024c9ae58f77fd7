// Package handlers provides HTTP handlers for missions and simulation sessions.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/aristath/hermes/internal/events"
	"github.com/aristath/hermes/internal/modules/missions"
	"github.com/aristath/hermes/internal/modules/series"
	"github.com/aristath/hermes/internal/modules/simulation"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles mission and session HTTP requests
type Handler struct {
	registry *simulation.Registry
	bus      *events.Bus
	log      zerolog.Logger

	// heartbeat is how often open streams ping the client and check the session still exists
	heartbeat time.Duration
}

// NewHandler creates a new simulation handler
func NewHandler(registry *simulation.Registry, bus *events.Bus, log zerolog.Logger) *Handler {
	return &Handler{
		registry:  registry,
		bus:       bus,
		log:       log.With().Str("handler", "simulation").Logger(),
		heartbeat: 30 * time.Second,
	}
}

// CreateSessionRequest opens a session for a player
type CreateSessionRequest struct {
	PlayerName string `json:"playerName"`
}

// StartMissionRequest starts a mission in a session
type StartMissionRequest struct {
	MissionID string `json:"missionId"`
}

// AutoPlayRequest toggles auto-play
type AutoPlayRequest struct {
	Enabled bool `json:"enabled"`
}

// TradeRequest is a market order for whole shares
type TradeRequest struct {
	Quantity int `json:"quantity"`
}

// HandleListMissions handles GET /api/missions
func (h *Handler) HandleListMissions(w http.ResponseWriter, r *http.Request) {
	list := h.registry.Catalog().List()
	h.writeJSON(w, http.StatusOK, envelope(map[string]interface{}{
		"missions": list,
		"count":    len(list),
	}))
}

// HandleGetMission handles GET /api/missions/{id}
func (h *Handler) HandleGetMission(w http.ResponseWriter, r *http.Request) {
	mission, err := h.registry.Catalog().Get(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, envelope(mission))
}

// HandleCreateSession handles POST /api/sessions
func (h *Handler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	session, err := h.registry.Create(req.PlayerName)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, envelope(session.State()))
}

// HandleGetSession handles GET /api/sessions/{id}
func (h *Handler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, envelope(session.State()))
}

// HandleDeleteSession handles DELETE /api/sessions/{id}
func (h *Handler) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.registry.Remove(chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleStartMission handles POST /api/sessions/{id}/start
func (h *Handler) HandleStartMission(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req StartMissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.MissionID == "" {
		http.Error(w, "missionId is required", http.StatusBadRequest)
		return
	}

	state, err := session.StartMission(r.Context(), req.MissionID)
	if err != nil {
		h.log.Warn().Err(err).Str("session_id", session.ID()).Str("mission_id", req.MissionID).Msg("Mission start failed")
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, envelope(state))
}

// HandleAdvance handles POST /api/sessions/{id}/advance
func (h *Handler) HandleAdvance(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	res, state := session.AdvanceOneDay()
	h.writeJSON(w, http.StatusOK, envelope(map[string]interface{}{
		"advanced":  res.Advanced,
		"exhausted": res.Exhausted,
		"finished":  res.Finished,
		"state":     state,
	}))
}

// HandleAutoPlay handles POST /api/sessions/{id}/autoplay
func (h *Handler) HandleAutoPlay(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req AutoPlayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	state, err := session.SetAutoPlay(req.Enabled)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, envelope(state))
}

// HandleBuy handles POST /api/sessions/{id}/buy
func (h *Handler) HandleBuy(w http.ResponseWriter, r *http.Request) {
	h.handleTrade(w, r, (*simulation.Session).Buy)
}

// HandleSell handles POST /api/sessions/{id}/sell
func (h *Handler) HandleSell(w http.ResponseWriter, r *http.Request) {
	h.handleTrade(w, r, (*simulation.Session).Sell)
}

// handleTrade answers 200 for rejected orders too; accepted=false carries the reason
func (h *Handler) handleTrade(w http.ResponseWriter, r *http.Request, execute func(*simulation.Session, int) simulation.TradeResult) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req TradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	h.writeJSON(w, http.StatusOK, envelope(execute(session, req.Quantity)))
}

// HandleExit handles POST /api/sessions/{id}/exit
func (h *Handler) HandleExit(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, envelope(session.ExitMission()))
}

// HandleChart handles GET /api/sessions/{id}/chart?window=N&sma=P
func (h *Handler) HandleChart(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	window, err := queryInt(r, "window")
	if err != nil {
		http.Error(w, "window must be an integer", http.StatusBadRequest)
		return
	}
	sma, err := queryInt(r, "sma")
	if err != nil {
		http.Error(w, "sma must be an integer", http.StatusBadRequest)
		return
	}

	chart, err := session.Chart(window, sma)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, envelope(chart))
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*simulation.Session, bool) {
	session, err := h.registry.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return nil, false
	}
	return session, true
}

func queryInt(r *http.Request, key string) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, simulation.ErrSessionNotFound), errors.Is(err, missions.ErrMissionNotFound):
		return http.StatusNotFound
	case errors.Is(err, simulation.ErrInvalidPlayerName):
		return http.StatusBadRequest
	case errors.Is(err, simulation.ErrMissionActive),
		errors.Is(err, simulation.ErrLoadSuperseded),
		errors.Is(err, simulation.ErrNotPlaying):
		return http.StatusConflict
	case errors.Is(err, series.ErrStartDateNotFound):
		return http.StatusUnprocessableEntity
	case errors.Is(err, simulation.ErrScenarioLoadFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.log.Error().Err(err).Msg("Request failed")
	}
	h.writeJSON(w, status, map[string]interface{}{
		"error": err.Error(),
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
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
