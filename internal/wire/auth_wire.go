package wire

import (
	"net/http"

	"computer-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler, auth func(http.Handler) http.Handler) {
	r.Route("/api/auth", func(r chi.Router) {
		// ==================== PUBLIC ROUTES ====================
		r.Post("/login", authHandler.Login)
		r.Post("/register", authHandler.Register)

		// ==================== PROTECTED ROUTES ====================
		r.With(auth).Post("/change-password", authHandler.ChangePassword)
	})
}
