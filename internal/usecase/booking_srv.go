package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"computer-booking/internal/data/entity"
	"computer-booking/internal/data/repository"
	"computer-booking/internal/dto/request"
	"computer-booking/internal/dto/response"
	"computer-booking/internal/notifier"
	"computer-booking/pkg/apperror"
	"computer-booking/pkg/clock"
	"computer-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	CreateBooking(ctx context.Context, userID uuid.UUID, req *request.CreateBookingRequest) (*response.CreateBookingResponse, error)
	CancelBooking(ctx context.Context, bookingID, userID uuid.UUID) error
	ReconcileStatuses(ctx context.Context) (entity.ReconcileResult, error)

	ListBookings(ctx context.Context, rng request.BookingRangeQuery, page request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	ListMyBookings(ctx context.Context, userID uuid.UUID, page request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	ListActiveBookings(ctx context.Context, userID uuid.UUID) ([]response.BookingResponse, error)
}

type bookingService struct {
	repo       *repository.Repository
	dispatcher *notifier.Dispatcher
	clock      clock.Clock
	config     utils.BookingConfig
	log        *zap.Logger
}

func NewBookingService(
	repo *repository.Repository,
	dispatcher *notifier.Dispatcher,
	clk clock.Clock,
	config utils.BookingConfig,
	log *zap.Logger,
) BookingService {
	return &bookingService{
		repo:       repo,
		dispatcher: dispatcher,
		clock:      clk,
		config:     config,
		log:        log.With(zap.String("service", "booking")),
	}
}

// ==================== CREATE ====================

func (s *bookingService) CreateBooking(ctx context.Context, userID uuid.UUID, req *request.CreateBookingRequest) (*response.CreateBookingResponse, error) {
	now := s.clock.Now()

	// 1. Required fields and formats
	computerID, start, end, err := parseBookingRequest(req)
	if err != nil {
		s.log.Warn("Create booking validation failed", zap.Error(err))
		return nil, err
	}

	// 2. No bookings in the past
	if start.Before(now) {
		return nil, apperror.PastStartTime()
	}

	// 3. Non-empty interval
	if !end.After(start) {
		return nil, apperror.InvalidInterval()
	}

	// 4. Advance window
	maxAdvanceDays, err := s.repo.Setting.GetInt(ctx, entity.SettingMaxAdvanceDays, s.config.MaxAdvanceDays)
	if err != nil {
		return nil, fmt.Errorf("load advance window: %w", err)
	}
	horizon := now.Add(time.Duration(maxAdvanceDays) * 24 * time.Hour)
	if start.After(horizon) || end.After(horizon) {
		return nil, apperror.AdvanceWindowExceeded(maxAdvanceDays)
	}

	var (
		booking  *entity.Booking
		session  *entity.Session
		user     *entity.User
		computer *entity.Computer
	)

	// 5-8. Availability, conflict, quota and insert in one transaction
	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		var err error
		computer, err = tx.Computer.FindByIDForUpdate(ctx, computerID)
		if err != nil {
			return err
		}
		if computer == nil {
			return apperror.ComputerNotFound()
		}
		if !computer.IsBookable() {
			return apperror.ComputerUnavailable(string(computer.Status))
		}

		conflict, err := tx.Booking.FindConflict(ctx, computerID, start, end)
		if err != nil {
			return err
		}
		if conflict != nil && conflict.OverlapsInterval(start, end) {
			return apperror.BookingConflict(conflict.ID.String(), conflict.StartTime, conflict.EndTime, string(conflict.Status))
		}

		user, err = tx.User.FindByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return apperror.AuthRequired()
		}
		if user.Banned {
			return apperror.AccountBanned()
		}

		if err := s.checkQuota(ctx, tx, user, start, end); err != nil {
			return err
		}

		code, err := utils.GenerateUnlockCode(s.config.UnlockCodeLength)
		if err != nil {
			return err
		}

		booking = &entity.Booking{
			Base: entity.Base{
				ID:        uuid.New(),
				CreatedAt: now,
			},
			UserID:     userID,
			ComputerID: computerID,
			StartTime:  start,
			EndTime:    end,
			Status:     entity.BookingStatusPending,
		}
		if err := tx.Booking.Create(ctx, booking); err != nil {
			if errors.Is(err, repository.ErrBookingOverlap) {
				return apperror.BookingConflict("", start, end, "")
			}
			return err
		}

		session = &entity.Session{
			ID:         uuid.New(),
			BookingID:  booking.ID,
			UnlockCode: code,
			Status:     entity.SessionStatusLocked,
		}
		return tx.Session.Create(ctx, session)
	})
	if err != nil {
		if _, ok := apperror.As(err); ok {
			s.log.Warn("Booking rejected",
				zap.String("code", apperror.CodeOf(err)),
				zap.String("user_id", userID.String()),
				zap.String("computer_id", computerID.String()),
			)
			return nil, err
		}
		s.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("computer_id", computerID.String()),
		)
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("computer_id", computerID.String()),
		zap.Time("start_time", start),
		zap.Time("end_time", end),
	)

	// 9. Confirmation is best effort
	s.dispatcher.Dispatch(notifier.BookingCreated{
		BookingID:    booking.ID,
		UserID:       user.ID,
		Username:     user.Username,
		Email:        user.Email,
		ComputerID:   computer.ID,
		ComputerName: computer.Name,
		StartTime:    booking.StartTime,
		EndTime:      booking.EndTime,
		UnlockCode:   session.UnlockCode,
		CreatedAt:    booking.CreatedAt,
	})

	return &response.CreateBookingResponse{
		Message:    "Booking created successfully",
		BookingID:  booking.ID.String(),
		UnlockCode: session.UnlockCode,
	}, nil
}

func parseBookingRequest(req *request.CreateBookingRequest) (uuid.UUID, time.Time, time.Time, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return uuid.Nil, time.Time{}, time.Time{},
			apperror.Validation(utils.FormatValidationErrors(errs), utils.ValidationDetails(errs))
	}

	computerID, err := uuid.Parse(req.ComputerID)
	if err != nil {
		return uuid.Nil, time.Time{}, time.Time{},
			apperror.Validation("computer_id must be a valid UUID", map[string]any{"ComputerID": "Must be a valid UUID"})
	}

	start, ok := utils.ParseTimestamp(req.StartTime)
	if !ok {
		return uuid.Nil, time.Time{}, time.Time{},
			apperror.Validation("start_time must be an ISO-8601 timestamp", map[string]any{"StartTime": "Must be an ISO-8601 timestamp"})
	}

	end, ok := utils.ParseTimestamp(req.EndTime)
	if !ok {
		return uuid.Nil, time.Time{}, time.Time{},
			apperror.Validation("end_time must be an ISO-8601 timestamp", map[string]any{"EndTime": "Must be an ISO-8601 timestamp"})
	}

	return computerID, start, end, nil
}

// checkQuota counts slots of the user's pending and active bookings against
// twice the effective concurrent booking limit.
func (s *bookingService) checkQuota(ctx context.Context, tx *repository.Repository, user *entity.User, start, end time.Time) error {
	group, err := tx.Group.FindByName(ctx, user.GroupName)
	if err != nil {
		return err
	}
	maxSlots := entity.MaxSlots(entity.EffectiveMaxBookings(user, group))

	live, err := tx.Booking.FindLiveByUser(ctx, user.ID)
	if err != nil {
		return err
	}
	currentSlots := 0
	for _, b := range live {
		if b.Status.IsLive() {
			currentSlots += b.Slots()
		}
	}

	newSlots := entity.SlotCount(start, end)
	if currentSlots+newSlots > maxSlots {
		return apperror.QuotaExceeded(currentSlots, newSlots, maxSlots)
	}
	return nil
}

// ==================== CANCEL ====================

// CancelBooking lets the owner or an administrator cancel. The admin role is
// read from the users table, not from the token.
func (s *bookingService) CancelBooking(ctx context.Context, bookingID, userID uuid.UUID) error {
	now := s.clock.Now()
	isAdmin := false

	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		booking, err := tx.Booking.FindByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if booking == nil {
			return apperror.BookingNotFound()
		}
		if booking.UserID != userID {
			caller, err := tx.User.FindByID(ctx, userID)
			if err != nil {
				return err
			}
			if caller == nil || !caller.IsAdmin() {
				return apperror.Unauthorized("Not authorized to cancel this booking")
			}
			isAdmin = true
		}

		if err := tx.Booking.UpdateStatus(ctx, bookingID, entity.BookingStatusCancelled); err != nil {
			return err
		}
		_, err = tx.Session.LockByBooking(ctx, bookingID, now)
		return err
	})
	if err != nil {
		if _, ok := apperror.As(err); ok {
			s.log.Warn("Cancel booking rejected",
				zap.String("code", apperror.CodeOf(err)),
				zap.String("booking_id", bookingID.String()),
				zap.String("user_id", userID.String()),
			)
			return err
		}
		s.log.Error("Failed to cancel booking",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return fmt.Errorf("cancel booking %s: %w", bookingID, err)
	}

	s.log.Info("Booking cancelled",
		zap.String("booking_id", bookingID.String()),
		zap.String("user_id", userID.String()),
		zap.Bool("admin", isAdmin),
	)
	return nil
}

// ==================== RECONCILE ====================

func (s *bookingService) ReconcileStatuses(ctx context.Context) (entity.ReconcileResult, error) {
	now := s.clock.Now()

	var result entity.ReconcileResult
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		var err error
		result, err = tx.Booking.Reconcile(ctx, now, s.config.NoShowEnabled)
		return err
	})
	if err != nil {
		s.log.Error("Failed to reconcile booking statuses", zap.Error(err))
		return entity.ReconcileResult{}, fmt.Errorf("reconcile statuses: %w", err)
	}

	if result.Total() > 0 || result.SessionsLocked > 0 {
		s.log.Info("Booking statuses reconciled",
			zap.Int64("activated", result.Activated),
			zap.Int64("completed", result.Completed),
			zap.Int64("expired", result.Expired),
			zap.Int64("no_show", result.NoShow),
			zap.Int64("sessions_locked", result.SessionsLocked),
		)
	}

	return result, nil
}

// ==================== LISTINGS ====================

func (s *bookingService) ListBookings(ctx context.Context, rng request.BookingRangeQuery, page request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	from, to, err := parseRange(rng)
	if err != nil {
		return nil, err
	}

	filter := repository.BookingFilter{
		From:   from,
		To:     to,
		Limit:  page.Limit(),
		Offset: page.Offset(),
	}

	bookings, err := s.repo.Booking.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	total, err := s.repo.Booking.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}

	return response.NewPaginatedResponse(response.BookingsToResponse(bookings), page.Page, page.Limit(), total), nil
}

func (s *bookingService) ListMyBookings(ctx context.Context, userID uuid.UUID, page request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	bookings, err := s.repo.Booking.ListByUser(ctx, userID, page.Limit(), page.Offset())
	if err != nil {
		return nil, fmt.Errorf("list my bookings: %w", err)
	}

	total, err := s.repo.Booking.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count my bookings: %w", err)
	}

	return response.NewPaginatedResponse(response.BookingsToResponse(bookings), page.Page, page.Limit(), total), nil
}

func (s *bookingService) ListActiveBookings(ctx context.Context, userID uuid.UUID) ([]response.BookingResponse, error) {
	bookings, err := s.repo.Booking.ListUpcomingByUser(ctx, userID, s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("list active bookings: %w", err)
	}
	return response.BookingsToResponse(bookings), nil
}

// parseRange reads an optional start_date/end_date pair. A bound that is
// present must parse.
func parseRange(rng request.BookingRangeQuery) (*time.Time, *time.Time, error) {
	var from, to *time.Time

	if rng.StartDate != "" {
		t, ok := utils.ParseTime(rng.StartDate)
		if !ok {
			return nil, nil, apperror.Validation("start_date must be a date or ISO-8601 timestamp",
				map[string]any{"start_date": rng.StartDate})
		}
		from = &t
	}

	if rng.EndDate != "" {
		t, ok := utils.ParseTime(rng.EndDate)
		if !ok {
			return nil, nil, apperror.Validation("end_date must be a date or ISO-8601 timestamp",
				map[string]any{"end_date": rng.EndDate})
		}
		to = &t
	}

	return from, to, nil
}
