package wire

import (
	"net/http"

	"computer-booking/internal/adaptor"
	"computer-booking/internal/data/repository"
	"computer-booking/internal/notifier"
	"computer-booking/internal/usecase"
	"computer-booking/pkg/clock"
	"computer-booking/pkg/middleware"
	"computer-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App holds the wired router and the services background jobs need.
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring builds services, handlers and routes.
func Wiring(
	repo *repository.Repository,
	dispatcher *notifier.Dispatcher,
	clk clock.Clock,
	config *utils.Config,
	logger *zap.Logger,
) *App {
	tokens := utils.NewTokenManager(config.JWT, clk)

	service := usecase.NewService(repo, tokens, dispatcher, clk, config, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, repo, tokens, config, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	tokens *utils.TokenManager,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	auth := middleware.Auth(tokens, logger)
	admin := middleware.Admin(repo.User, logger)

	wireAuth(r, handler.Auth, auth)
	wireUser(r, handler.User, auth)
	wireBooking(r, handler.Booking, auth)
	wireComputer(r, handler.Computer, auth)
	wireAdmin(r, handler.Admin, auth, admin)
	wireClient(r, handler.Client, config, logger)

	r.Get("/health", health(repo, logger))

	return r
}

func health(repo *repository.Repository, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := repo.Ping(r.Context()); err != nil {
			logger.Warn("Health check failed", zap.Error(err))
			utils.ResponseJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		utils.ResponseSuccess(w, map[string]string{"status": "ok"})
	}
}
