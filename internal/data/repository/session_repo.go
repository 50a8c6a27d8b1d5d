package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"computer-booking/internal/data/entity"
	"computer-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.Session, error)
	// FindUnlockTarget finds the session opened by code on computerID whose
	// booking is active and whose window contains now (both ends inclusive).
	FindUnlockTarget(ctx context.Context, computerID uuid.UUID, code string, now time.Time) (*entity.UnlockTarget, error)
	// MarkUnlocked sets status unlocked and stamps unlocked_at only if unset.
	MarkUnlocked(ctx context.Context, id uuid.UUID, now time.Time) error
	// LockByBooking sets status locked and stamps locked_at only if unset.
	LockByBooking(ctx context.Context, bookingID uuid.UUID, now time.Time) (bool, error)
}

type sessionRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewSessionRepository(db database.Querier, log *zap.Logger) SessionRepository {
	return &sessionRepository{
		db:  db,
		log: log.With(zap.String("repository", "session")),
	}
}

func (r *sessionRepository) Create(ctx context.Context, session *entity.Session) error {
	query := `
		INSERT INTO sessions (id, booking_id, unlock_code, unlocked_at, locked_at, status)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		session.ID,
		session.BookingID,
		session.UnlockCode,
		session.UnlockedAt,
		session.LockedAt,
		session.Status,
	)

	if err != nil {
		r.log.Error("Failed to create session",
			zap.Error(err),
			zap.String("booking_id", session.BookingID.String()),
		)
		return fmt.Errorf("create session for booking %s: %w", session.BookingID.String(), err)
	}

	return nil
}

func (r *sessionRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.Session, error) {
	query := `
		SELECT id, booking_id, unlock_code, unlocked_at, locked_at, status
		FROM sessions
		WHERE booking_id = $1
	`

	var s entity.Session
	err := r.db.QueryRow(ctx, query, bookingID).Scan(
		&s.ID,
		&s.BookingID,
		&s.UnlockCode,
		&s.UnlockedAt,
		&s.LockedAt,
		&s.Status,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find session by booking",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find session by booking %s: %w", bookingID.String(), err)
	}

	return &s, nil
}

func (r *sessionRepository) FindUnlockTarget(ctx context.Context, computerID uuid.UUID, code string, now time.Time) (*entity.UnlockTarget, error) {
	query := `
		SELECT s.id, s.booking_id, s.unlock_code, s.unlocked_at, s.locked_at, s.status,
		       b.computer_id, b.start_time, b.end_time, b.status
		FROM sessions s
		JOIN bookings b ON b.id = s.booking_id
		WHERE b.computer_id = $1
		  AND s.unlock_code = $2
		  AND b.status = 'active'
		  AND b.start_time <= $3
		  AND b.end_time >= $3
		LIMIT 1
	`

	var t entity.UnlockTarget
	err := r.db.QueryRow(ctx, query, computerID, code, now).Scan(
		&t.ID,
		&t.BookingID,
		&t.UnlockCode,
		&t.UnlockedAt,
		&t.LockedAt,
		&t.Status,
		&t.ComputerID,
		&t.StartTime,
		&t.EndTime,
		&t.BookingStatus,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find unlock target",
			zap.Error(err),
			zap.String("computer_id", computerID.String()),
		)
		return nil, fmt.Errorf("find unlock target on computer %s: %w", computerID.String(), err)
	}

	return &t, nil
}

func (r *sessionRepository) MarkUnlocked(ctx context.Context, id uuid.UUID, now time.Time) error {
	query := `
		UPDATE sessions
		SET status = 'unlocked', unlocked_at = COALESCE(unlocked_at, $2)
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, id, now)
	if err != nil {
		r.log.Error("Failed to mark session unlocked",
			zap.Error(err),
			zap.String("session_id", id.String()),
		)
		return fmt.Errorf("unlock session %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("session %s not found", id.String())
	}

	return nil
}

func (r *sessionRepository) LockByBooking(ctx context.Context, bookingID uuid.UUID, now time.Time) (bool, error) {
	query := `
		UPDATE sessions
		SET status = 'locked', locked_at = COALESCE(locked_at, $2)
		WHERE booking_id = $1
	`

	result, err := r.db.Exec(ctx, query, bookingID, now)
	if err != nil {
		r.log.Error("Failed to lock session",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return false, fmt.Errorf("lock session for booking %s: %w", bookingID.String(), err)
	}

	return result.RowsAffected() > 0, nil
}
