package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/aristath/hermes/internal/events"
	"github.com/aristath/hermes/internal/modules/simulation"
	"github.com/go-chi/chi/v5"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const writeTimeout = 5 * time.Second

// StreamMessage is pushed to websocket clients: the session state after an event
type StreamMessage struct {
	Type  string           `json:"type"`
	Event events.EventType `json:"event,omitempty"`
	State simulation.State `json:"state"`
}

// HandleStream handles GET /api/sessions/{id}/stream (websocket).
// The current state is sent on connect and again after every event of the session.
func (h *Handler) HandleStream(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	session, err := h.registry.Get(id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		h.log.Warn().Err(err).Str("session_id", id).Msg("Websocket upgrade failed")
		return
	}
	defer conn.CloseNow()

	// Client messages are ignored; the returned context ends when the client goes away
	ctx := conn.CloseRead(r.Context())

	// Bus handlers run under the session lock, so they only signal here
	// and state is read from this goroutine
	notify := make(chan events.EventType, 16)
	ids := h.bus.SubscribeAll(func(event *events.Event) {
		if event.SessionID() != id {
			return
		}
		select {
		case notify <- event.Type:
		default:
			h.log.Warn().Str("session_id", id).Str("event_type", string(event.Type)).Msg("Stream buffer full, dropping event")
		}
	})
	defer h.bus.Unsubscribe(ids...)

	h.log.Info().Str("session_id", id).Msg("Client connected to session stream")

	if err := h.send(ctx, conn, StreamMessage{Type: "connected", State: session.State()}); err != nil {
		return
	}

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			h.log.Info().Str("session_id", id).Msg("Client disconnected from session stream")
			return

		case eventType := <-notify:
			msg := StreamMessage{Type: "state", Event: eventType, State: session.State()}
			if err := h.send(ctx, conn, msg); err != nil {
				return
			}

		case <-heartbeat.C:
			if _, err := h.registry.Get(id); errors.Is(err, simulation.ErrSessionNotFound) {
				conn.Close(websocket.StatusGoingAway, "session closed")
				return
			}
			pingCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}
		}
	}
}

func (h *Handler) send(ctx context.Context, conn *websocket.Conn, msg StreamMessage) error {
	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if err := wsjson.Write(writeCtx, conn, msg); err != nil {
		h.log.Debug().Err(err).Msg("Stream write failed")
		return err
	}
	return nil
}
