package usecase

import (
	"context"
	"fmt"

	"computer-booking/internal/data/entity"
	"computer-booking/internal/data/repository"
	"computer-booking/internal/dto/request"
	"computer-booking/internal/dto/response"
	"computer-booking/pkg/apperror"
	"computer-booking/pkg/clock"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Reconciler applies time-driven booking transitions.
type Reconciler interface {
	ReconcileStatuses(ctx context.Context) (entity.ReconcileResult, error)
}

type ComputerService interface {
	ListComputers(ctx context.Context) ([]response.ComputerAvailabilityResponse, error)
	GetComputer(ctx context.Context, id uuid.UUID) (*response.ComputerResponse, error)
	ListComputerBookings(ctx context.Context, id uuid.UUID, rng request.BookingRangeQuery) ([]response.BookingResponse, error)
	CleanupExpired(ctx context.Context) (*response.ReconcileResponse, error)
}

type computerService struct {
	repo       *repository.Repository
	reconciler Reconciler
	clock      clock.Clock
	log        *zap.Logger
}

func NewComputerService(repo *repository.Repository, reconciler Reconciler, clk clock.Clock, log *zap.Logger) ComputerService {
	return &computerService{
		repo:       repo,
		reconciler: reconciler,
		clock:      clk,
		log:        log.With(zap.String("service", "computer")),
	}
}

// ListComputers reconciles statuses first so the availability flags are current.
// A failed reconciliation is logged and the listing still served.
func (s *computerService) ListComputers(ctx context.Context) ([]response.ComputerAvailabilityResponse, error) {
	if _, err := s.reconciler.ReconcileStatuses(ctx); err != nil {
		s.log.Warn("Reconcile before listing failed", zap.Error(err))
	}

	computers, err := s.repo.Computer.FindAllWithAvailability(ctx, s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("list computers: %w", err)
	}

	return response.ComputersToResponse(computers), nil
}

func (s *computerService) GetComputer(ctx context.Context, id uuid.UUID) (*response.ComputerResponse, error) {
	computer, err := s.repo.Computer.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get computer: %w", err)
	}
	if computer == nil {
		return nil, apperror.ComputerNotFound()
	}

	resp := response.ComputerToResponse(computer)
	return &resp, nil
}

func (s *computerService) ListComputerBookings(ctx context.Context, id uuid.UUID, rng request.BookingRangeQuery) ([]response.BookingResponse, error) {
	from, to, err := parseRange(rng)
	if err != nil {
		return nil, err
	}

	computer, err := s.repo.Computer.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list computer bookings: %w", err)
	}
	if computer == nil {
		return nil, apperror.ComputerNotFound()
	}

	bookings, err := s.repo.Booking.ListByComputer(ctx, id, from, to)
	if err != nil {
		return nil, fmt.Errorf("list computer bookings: %w", err)
	}

	return response.BookingsToResponse(bookings), nil
}

func (s *computerService) CleanupExpired(ctx context.Context) (*response.ReconcileResponse, error) {
	result, err := s.reconciler.ReconcileStatuses(ctx)
	if err != nil {
		return nil, err
	}

	return &response.ReconcileResponse{
		Message:         "Booking statuses updated",
		ReconcileResult: result,
	}, nil
}
