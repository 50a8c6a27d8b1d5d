package wire

import (
	"net/http"

	"computer-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireAdmin(r chi.Router, adminHandler *adaptor.AdminHandler, auth, admin func(http.Handler) http.Handler) {
	// ==================== ADMIN ROUTES (require auth + admin role) ====================
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(auth, admin)

		r.Get("/users", adminHandler.ListUsers)
		r.Post("/users", adminHandler.CreateUser)
		r.Put("/users/{id}", adminHandler.UpdateUser)
		r.Post("/users/{id}/ban", adminHandler.BanUser)
		r.Post("/users/{id}/unban", adminHandler.UnbanUser)
		r.Delete("/users/{id}", adminHandler.DeleteUser)

		r.Get("/computers", adminHandler.ListComputers)
		r.Post("/computers", adminHandler.CreateComputer)
		r.Put("/computers/{id}", adminHandler.UpdateComputer)
		r.Delete("/computers/{id}", adminHandler.DeleteComputer)

		r.Get("/groups", adminHandler.ListGroups)
		r.Post("/groups", adminHandler.UpsertGroup)

		r.Get("/bookings", adminHandler.ListBookings)
		r.Delete("/bookings/{id}", adminHandler.DeleteBooking)

		r.Get("/settings", adminHandler.GetSettings)
		r.Put("/settings", adminHandler.UpdateSettings)

		r.Get("/stats", adminHandler.Stats)
		r.Get("/reports/usage", adminHandler.UsageReport)
	})
}
