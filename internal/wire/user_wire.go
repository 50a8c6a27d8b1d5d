package wire

import (
	"net/http"

	"computer-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireUser(r chi.Router, userHandler *adaptor.UserHandler, auth func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(auth)

		r.Get("/api/user/profile", userHandler.GetProfile)
	})
}
