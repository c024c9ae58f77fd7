package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers mission catalog and session routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/missions", func(r chi.Router) {
		r.Get("/", h.HandleListMissions)
		r.Get("/{id}", h.HandleGetMission)
	})

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", h.HandleCreateSession)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.HandleGetSession)
			r.Delete("/", h.HandleDeleteSession)

			// Mission lifecycle
			r.Post("/start", h.HandleStartMission)
			r.Post("/advance", h.HandleAdvance)
			r.Post("/autoplay", h.HandleAutoPlay)
			r.Post("/exit", h.HandleExit)

			// Trading
			r.Post("/buy", h.HandleBuy)
			r.Post("/sell", h.HandleSell)

			r.Get("/chart", h.HandleChart)
			r.Get("/stream", h.HandleStream)
		})
	})
}
