package wire

import (
	"net/http"

	"computer-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireComputer(r chi.Router, computerHandler *adaptor.ComputerHandler, auth func(http.Handler) http.Handler) {
	r.Route("/api/computers", func(r chi.Router) {
		r.Use(auth)

		r.Get("/", computerHandler.ListComputers)
		r.Post("/cleanup-expired", computerHandler.CleanupExpired)
		r.Get("/{id}", computerHandler.GetComputer)
		r.Get("/{id}/bookings", computerHandler.ListComputerBookings)
	})
}
