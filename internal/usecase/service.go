package usecase

import (
	"computer-booking/internal/data/repository"
	"computer-booking/internal/notifier"
	"computer-booking/pkg/clock"
	"computer-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth     AuthService
	User     UserService
	Booking  BookingService
	Client   ClientService
	Computer ComputerService
	Admin    AdminService
}

func NewService(
	repo *repository.Repository,
	tokens *utils.TokenManager,
	dispatcher *notifier.Dispatcher,
	clk clock.Clock,
	config *utils.Config,
	log *zap.Logger,
) *Service {
	booking := NewBookingService(repo, dispatcher, clk, config.Booking, log)

	return &Service{
		Auth:     NewAuthService(repo, tokens, clk, log),
		User:     NewUserService(repo, log),
		Booking:  booking,
		Client:   NewClientService(repo, clk, log),
		Computer: NewComputerService(repo, booking, clk, log),
		Admin:    NewAdminService(repo, clk, config.Booking, log),
	}
}
