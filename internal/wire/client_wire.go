package wire

import (
	"computer-booking/internal/adaptor"
	"computer-booking/pkg/middleware"
	"computer-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wireClient mounts the lock client routes. They carry no user token;
// CLIENT_API_KEY, when set, is required in X-Client-Key.
func wireClient(r chi.Router, clientHandler *adaptor.ClientHandler, config *utils.Config, log *zap.Logger) {
	r.Route("/api/client", func(r chi.Router) {
		r.Use(middleware.ClientKey(config.Client.APIKey, log))

		r.Post("/check-unlock", clientHandler.CheckUnlock)
		r.Post("/unlock", clientHandler.Unlock)
		r.Post("/lock", clientHandler.Lock)
	})
}
