package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers information-mode market data routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/market/{symbol}", func(r chi.Router) {
		r.Get("/quote", h.HandleGetQuote)
		r.Get("/overview", h.HandleGetOverview)
		r.Get("/history", h.HandleGetHistory)
		r.Get("/news", h.HandleGetNews)
	})
}
