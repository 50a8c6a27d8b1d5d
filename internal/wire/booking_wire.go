package wire

import (
	"net/http"

	"computer-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireBooking(r chi.Router, bookingHandler *adaptor.BookingHandler, auth func(http.Handler) http.Handler) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Route("/api/bookings", func(r chi.Router) {
		r.Use(auth)

		r.Get("/", bookingHandler.ListBookings)
		r.Post("/", bookingHandler.CreateBooking)
		r.Get("/my-bookings", bookingHandler.ListMyBookings)
		r.Get("/active", bookingHandler.ListActiveBookings)

		// owner or admin
		r.Delete("/{id}", bookingHandler.CancelBooking)
	})
}
