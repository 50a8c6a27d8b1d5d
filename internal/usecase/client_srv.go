package usecase

import (
	"context"
	"fmt"
	"strings"

	"computer-booking/internal/data/entity"
	"computer-booking/internal/data/repository"
	"computer-booking/internal/dto/request"
	"computer-booking/internal/dto/response"
	"computer-booking/pkg/apperror"
	"computer-booking/pkg/clock"
	"computer-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ClientService serves the lock client running on each computer.
type ClientService interface {
	CheckUnlock(ctx context.Context, req *request.CheckUnlockRequest) (*response.CheckUnlockResponse, error)
	Unlock(ctx context.Context, req *request.UnlockRequest) (*response.UnlockResponse, error)
	Lock(ctx context.Context, req *request.LockRequest) (*response.LockResponse, error)
}

type clientService struct {
	repo  *repository.Repository
	clock clock.Clock
	log   *zap.Logger
}

func NewClientService(repo *repository.Repository, clk clock.Clock, log *zap.Logger) ClientService {
	return &clientService{
		repo:  repo,
		clock: clk,
		log:   log.With(zap.String("service", "client")),
	}
}

func parseComputerID(req any, raw string) (uuid.UUID, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return uuid.Nil, apperror.Validation(utils.FormatValidationErrors(errs), utils.ValidationDetails(errs))
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperror.Validation("computer_id must be a valid UUID", nil)
	}
	return id, nil
}

// CheckUnlock reports the booking currently holding the computer and
// activates it if the reconciler has not yet done so.
func (s *clientService) CheckUnlock(ctx context.Context, req *request.CheckUnlockRequest) (*response.CheckUnlockResponse, error) {
	computerID, err := parseComputerID(req, req.ComputerID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	booking, err := s.repo.Booking.FindCurrentByComputer(ctx, computerID, now)
	if err != nil {
		return nil, fmt.Errorf("check unlock: %w", err)
	}
	if booking == nil {
		return &response.CheckUnlockResponse{
			ShouldUnlock: false,
			Message:      "No active booking found",
		}, nil
	}

	if booking.Status == entity.BookingStatusPending && booking.StatusAt(now) == entity.BookingStatusActive {
		activated, err := s.repo.Booking.Activate(ctx, booking.ID)
		if err != nil {
			return nil, fmt.Errorf("check unlock: %w", err)
		}
		if activated {
			s.log.Info("Booking activated on check-unlock",
				zap.String("booking_id", booking.ID.String()),
				zap.String("computer_id", computerID.String()),
			)
		}
		booking.Status = entity.BookingStatusActive
	}

	session, err := s.repo.Session.FindByBookingID(ctx, booking.ID)
	if err != nil {
		return nil, fmt.Errorf("check unlock: %w", err)
	}

	resp := &response.CheckUnlockResponse{
		ShouldUnlock: booking.IsCurrent(now),
		Booking: &response.CheckUnlockBooking{
			ID:        booking.ID.String(),
			User:      booking.Fullname,
			StartTime: booking.StartTime,
			EndTime:   booking.EndTime,
		},
		Message: "Computer is ready to use",
	}
	if session != nil {
		resp.Booking.UnlockCode = session.UnlockCode
	}
	if !resp.ShouldUnlock {
		resp.Message = "Booking time has not started yet"
	}

	return resp, nil
}

// Unlock opens the session matching the code. Repeated unlocks succeed
// without moving unlocked_at.
func (s *clientService) Unlock(ctx context.Context, req *request.UnlockRequest) (*response.UnlockResponse, error) {
	computerID, err := parseComputerID(req, req.ComputerID)
	if err != nil {
		return nil, err
	}
	code := strings.ToUpper(strings.TrimSpace(req.UnlockCode))
	if !utils.IsUnlockCode(code) {
		s.log.Warn("Malformed unlock code", zap.String("computer_id", computerID.String()))
		return nil, apperror.InvalidUnlock()
	}

	now := s.clock.Now()
	target, err := s.repo.Session.FindUnlockTarget(ctx, computerID, code, now)
	if err != nil {
		return nil, fmt.Errorf("unlock: %w", err)
	}
	if target == nil {
		s.log.Warn("Invalid unlock attempt", zap.String("computer_id", computerID.String()))
		return nil, apperror.InvalidUnlock()
	}

	if target.Status != entity.SessionStatusUnlocked || target.UnlockedAt == nil {
		if err := s.repo.Session.MarkUnlocked(ctx, target.ID, now); err != nil {
			return nil, fmt.Errorf("unlock: %w", err)
		}
		s.log.Info("Computer unlocked",
			zap.String("computer_id", computerID.String()),
			zap.String("booking_id", target.BookingID.String()),
		)
	}

	return &response.UnlockResponse{
		Success: true,
		Message: "Computer unlocked successfully",
		EndTime: target.EndTime,
	}, nil
}

// Lock completes the computer's ended active bookings and locks their sessions.
func (s *clientService) Lock(ctx context.Context, req *request.LockRequest) (*response.LockResponse, error) {
	computerID, err := parseComputerID(req, req.ComputerID)
	if err != nil {
		return nil, err
	}

	completed, locked, err := s.repo.Booking.CompleteEndedOnComputer(ctx, computerID, s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("lock: %w", err)
	}

	if completed > 0 {
		s.log.Info("Computer locked",
			zap.String("computer_id", computerID.String()),
			zap.Int64("completed", completed),
			zap.Int64("sessions_locked", locked),
		)
	}

	return &response.LockResponse{
		Success:   true,
		Message:   "Computer locked successfully",
		Completed: completed,
	}, nil
}
