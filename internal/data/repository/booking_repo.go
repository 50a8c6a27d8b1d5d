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

// ErrBookingOverlap is returned by Create when the exclusion constraint
// rejects an interval that overlaps a live booking on the same computer.
var ErrBookingOverlap = errors.New("booking overlaps an existing booking")

// BookingFilter narrows calendar listings. Nil bounds are open.
type BookingFilter struct {
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.BookingStatus) error
	// Activate moves a pending booking to active; false means it was not pending.
	Activate(ctx context.Context, id uuid.UUID) (bool, error)

	// Allocation queries
	FindConflict(ctx context.Context, computerID uuid.UUID, start, end time.Time) (*entity.Booking, error)
	FindLiveByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Booking, error)
	FindCurrentByComputer(ctx context.Context, computerID uuid.UUID, now time.Time) (*entity.BookingDetail, error)

	// Listings
	List(ctx context.Context, filter BookingFilter) ([]*entity.BookingDetail, error)
	Count(ctx context.Context, filter BookingFilter) (int64, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.BookingDetail, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	ListUpcomingByUser(ctx context.Context, userID uuid.UUID, now time.Time) ([]*entity.BookingDetail, error)
	ListByComputer(ctx context.Context, computerID uuid.UUID, from, to *time.Time) ([]*entity.BookingDetail, error)
	// ListRecent returns the latest bookings by start time. An empty status matches all.
	ListRecent(ctx context.Context, status entity.BookingStatus, limit int) ([]*entity.BookingDetail, error)

	// Delete removes the booking and its session; false means no such booking.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	// Status sweeps
	CompleteEndedOnComputer(ctx context.Context, computerID uuid.UUID, now time.Time) (completed, locked int64, err error)
	Reconcile(ctx context.Context, now time.Time, noShow bool) (entity.ReconcileResult, error)
}

type bookingRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewBookingRepository(db database.Querier, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, user_id, computer_id, start_time, end_time, status, created_at`

const bookingDetailSelect = `
		SELECT b.id, b.user_id, b.computer_id, b.start_time, b.end_time, b.status, b.created_at,
		       u.username, u.fullname, c.name
		FROM bookings b
		JOIN users u ON u.id = b.user_id
		JOIN computers c ON c.id = b.computer_id
`

func scanBooking(row scanner) (*entity.Booking, error) {
	var b entity.Booking
	err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.ComputerID,
		&b.StartTime,
		&b.EndTime,
		&b.Status,
		&b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func scanBookingDetail(row scanner) (*entity.BookingDetail, error) {
	var b entity.BookingDetail
	err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.ComputerID,
		&b.StartTime,
		&b.EndTime,
		&b.Status,
		&b.CreatedAt,
		&b.Username,
		&b.Fullname,
		&b.ComputerName,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) collectDetails(rows pgx.Rows) ([]*entity.BookingDetail, error) {
	defer rows.Close()

	var bookings []*entity.BookingDetail
	for rows.Next() {
		b, err := scanBookingDetail(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate booking rows: %w", err)
	}

	return bookings, nil
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (id, user_id, computer_id, start_time, end_time, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.UserID,
		booking.ComputerID,
		booking.StartTime,
		booking.EndTime,
		booking.Status,
		booking.CreatedAt,
	)

	if isExclusionViolation(err) {
		r.log.Warn("Booking rejected by overlap constraint",
			zap.String("computer_id", booking.ComputerID.String()),
			zap.Time("start_time", booking.StartTime),
			zap.Time("end_time", booking.EndTime),
		)
		return ErrBookingOverlap
	}
	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("user_id", booking.UserID.String()),
			zap.String("computer_id", booking.ComputerID.String()),
		)
		return fmt.Errorf("create booking %s: %w", booking.ID.String(), err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.BookingStatus) error {
	query := `UPDATE bookings SET status = $2 WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update booking status %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", id.String())
	}

	return nil
}

func (r *bookingRepository) Activate(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `UPDATE bookings SET status = 'active' WHERE id = $1 AND status = 'pending'`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to activate booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return false, fmt.Errorf("activate booking %s: %w", id.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

// FindConflict returns the earliest live booking on computerID overlapping [start, end).
func (r *bookingRepository) FindConflict(ctx context.Context, computerID uuid.UUID, start, end time.Time) (*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE computer_id = $1
		  AND status IN ('pending', 'active')
		  AND start_time < $3
		  AND end_time > $2
		ORDER BY start_time
		LIMIT 1
	`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, computerID, start, end))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to check booking conflict",
			zap.Error(err),
			zap.String("computer_id", computerID.String()),
		)
		return nil, fmt.Errorf("find conflict on computer %s: %w", computerID.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) FindLiveByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1 AND status IN ('pending', 'active')
		ORDER BY start_time
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to find live bookings",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find live bookings of user %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate booking rows: %w", err)
	}

	return bookings, nil
}

func (r *bookingRepository) FindCurrentByComputer(ctx context.Context, computerID uuid.UUID, now time.Time) (*entity.BookingDetail, error) {
	query := bookingDetailSelect + `
		WHERE b.computer_id = $1
		  AND b.status IN ('pending', 'active')
		  AND b.start_time <= $2
		  AND b.end_time > $2
		ORDER BY b.start_time
		LIMIT 1
	`

	booking, err := scanBookingDetail(r.db.QueryRow(ctx, query, computerID, now))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find current booking",
			zap.Error(err),
			zap.String("computer_id", computerID.String()),
		)
		return nil, fmt.Errorf("find current booking on computer %s: %w", computerID.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) List(ctx context.Context, filter BookingFilter) ([]*entity.BookingDetail, error) {
	query := bookingDetailSelect + `
		WHERE ($1::timestamptz IS NULL OR b.start_time >= $1)
		  AND ($2::timestamptz IS NULL OR b.end_time <= $2)
		ORDER BY b.start_time
		LIMIT $3 OFFSET $4
	`

	rows, err := r.db.Query(ctx, query, filter.From, filter.To, filter.Limit, filter.Offset)
	if err != nil {
		r.log.Error("Failed to list bookings", zap.Error(err))
		return nil, fmt.Errorf("list bookings limit %d offset %d: %w", filter.Limit, filter.Offset, err)
	}

	return r.collectDetails(rows)
}

func (r *bookingRepository) Count(ctx context.Context, filter BookingFilter) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM bookings b
		WHERE ($1::timestamptz IS NULL OR b.start_time >= $1)
		  AND ($2::timestamptz IS NULL OR b.end_time <= $2)
	`

	var count int64
	if err := r.db.QueryRow(ctx, query, filter.From, filter.To).Scan(&count); err != nil {
		r.log.Error("Database error counting bookings", zap.Error(err))
		return 0, fmt.Errorf("count bookings: %w", err)
	}

	return count, nil
}

func (r *bookingRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.BookingDetail, error) {
	query := bookingDetailSelect + `
		WHERE b.user_id = $1
		ORDER BY b.start_time DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to list user bookings",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("list bookings of user %s: %w", userID.String(), err)
	}

	return r.collectDetails(rows)
}

func (r *bookingRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE user_id = $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		r.log.Error("Database error counting user bookings",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("count bookings of user %s: %w", userID.String(), err)
	}

	return count, nil
}

// ListUpcomingByUser returns the user's live bookings that have not ended.
func (r *bookingRepository) ListUpcomingByUser(ctx context.Context, userID uuid.UUID, now time.Time) ([]*entity.BookingDetail, error) {
	query := bookingDetailSelect + `
		WHERE b.user_id = $1
		  AND b.status IN ('pending', 'active')
		  AND b.end_time > $2
		ORDER BY b.start_time
	`

	rows, err := r.db.Query(ctx, query, userID, now)
	if err != nil {
		r.log.Error("Failed to list upcoming bookings",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("list upcoming bookings of user %s: %w", userID.String(), err)
	}

	return r.collectDetails(rows)
}

// ListByComputer returns the non-cancelled bookings of a computer for its calendar.
func (r *bookingRepository) ListByComputer(ctx context.Context, computerID uuid.UUID, from, to *time.Time) ([]*entity.BookingDetail, error) {
	query := bookingDetailSelect + `
		WHERE b.computer_id = $1
		  AND b.status IN ('pending', 'active', 'completed')
		  AND ($2::timestamptz IS NULL OR b.start_time >= $2)
		  AND ($3::timestamptz IS NULL OR b.end_time <= $3)
		ORDER BY b.start_time
	`

	rows, err := r.db.Query(ctx, query, computerID, from, to)
	if err != nil {
		r.log.Error("Failed to list computer bookings",
			zap.Error(err),
			zap.String("computer_id", computerID.String()),
		)
		return nil, fmt.Errorf("list bookings of computer %s: %w", computerID.String(), err)
	}

	return r.collectDetails(rows)
}

func (r *bookingRepository) ListRecent(ctx context.Context, status entity.BookingStatus, limit int) ([]*entity.BookingDetail, error) {
	query := bookingDetailSelect + `
		WHERE ($1::text = '' OR b.status = $1)
		ORDER BY b.start_time DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, status, limit)
	if err != nil {
		r.log.Error("Failed to list recent bookings",
			zap.Error(err),
			zap.String("status", string(status)),
		)
		return nil, fmt.Errorf("list recent bookings: %w", err)
	}

	return r.collectDetails(rows)
}

func (r *bookingRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `DELETE FROM bookings WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return false, fmt.Errorf("delete booking %s: %w", id.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

// CompleteEndedOnComputer completes the computer's active bookings that have
// ended and locks their sessions.
func (r *bookingRepository) CompleteEndedOnComputer(ctx context.Context, computerID uuid.UUID, now time.Time) (int64, int64, error) {
	query := `
		WITH completed AS (
		    UPDATE bookings SET status = 'completed'
		    WHERE computer_id = $1 AND status = 'active' AND end_time <= $2
		    RETURNING id
		), locked AS (
		    UPDATE sessions SET status = 'locked', locked_at = $2
		    WHERE booking_id IN (SELECT id FROM completed)
		    RETURNING id
		)
		SELECT (SELECT COUNT(*) FROM completed), (SELECT COUNT(*) FROM locked)
	`

	var completed, locked int64
	if err := r.db.QueryRow(ctx, query, computerID, now).Scan(&completed, &locked); err != nil {
		r.log.Error("Failed to complete ended bookings",
			zap.Error(err),
			zap.String("computer_id", computerID.String()),
		)
		return 0, 0, fmt.Errorf("complete ended bookings on computer %s: %w", computerID.String(), err)
	}

	return completed, locked, nil
}

// Reconcile applies every time-driven status transition at now. Each
// statement is conditioned on the current status, so reruns change nothing.
func (r *bookingRepository) Reconcile(ctx context.Context, now time.Time, noShow bool) (entity.ReconcileResult, error) {
	var result entity.ReconcileResult

	completeQuery := `
		WITH completed AS (
		    UPDATE bookings SET status = 'completed'
		    WHERE status = 'active' AND end_time <= $1
		    RETURNING id
		), locked AS (
		    UPDATE sessions SET status = 'locked', locked_at = $1
		    WHERE booking_id IN (SELECT id FROM completed) AND locked_at IS NULL
		    RETURNING id
		)
		SELECT (SELECT COUNT(*) FROM completed), (SELECT COUNT(*) FROM locked)
	`
	var completedLocked int64
	if err := r.db.QueryRow(ctx, completeQuery, now).Scan(&result.Completed, &completedLocked); err != nil {
		r.log.Error("Failed to complete ended bookings", zap.Error(err))
		return result, fmt.Errorf("reconcile completed bookings: %w", err)
	}
	result.SessionsLocked += completedLocked

	expireQuery := `
		UPDATE bookings SET status = 'cancelled'
		WHERE status = 'pending' AND end_time <= $1
	`
	tag, err := r.db.Exec(ctx, expireQuery, now)
	if err != nil {
		r.log.Error("Failed to expire pending bookings", zap.Error(err))
		return result, fmt.Errorf("reconcile expired bookings: %w", err)
	}
	result.Expired = tag.RowsAffected()

	activateQuery := `
		UPDATE bookings SET status = 'active'
		WHERE status = 'pending' AND start_time <= $1 AND end_time > $1
	`
	tag, err = r.db.Exec(ctx, activateQuery, now)
	if err != nil {
		r.log.Error("Failed to activate started bookings", zap.Error(err))
		return result, fmt.Errorf("reconcile activated bookings: %w", err)
	}
	result.Activated = tag.RowsAffected()

	if !noShow {
		return result, nil
	}

	noShowQuery := `
		WITH no_show AS (
		    UPDATE bookings b SET status = 'cancelled'
		    FROM sessions s, users u
		    LEFT JOIN group_limits g ON g.group_name = u.group_name
		    WHERE s.booking_id = b.id
		      AND u.id = b.user_id
		      AND b.status = 'active'
		      AND s.unlocked_at IS NULL
		      AND COALESCE(g.no_show_minutes, $2) > 0
		      AND b.start_time + make_interval(mins => COALESCE(g.no_show_minutes, $2)) <= $1
		      AND b.end_time > $1
		    RETURNING b.id
		), locked AS (
		    UPDATE sessions SET status = 'locked', locked_at = $1
		    WHERE booking_id IN (SELECT id FROM no_show) AND locked_at IS NULL
		    RETURNING id
		)
		SELECT (SELECT COUNT(*) FROM no_show), (SELECT COUNT(*) FROM locked)
	`
	var noShowLocked int64
	if err := r.db.QueryRow(ctx, noShowQuery, now, entity.DefaultNoShowMinutes).Scan(&result.NoShow, &noShowLocked); err != nil {
		r.log.Error("Failed to cancel no-show bookings", zap.Error(err))
		return result, fmt.Errorf("reconcile no-show bookings: %w", err)
	}
	result.SessionsLocked += noShowLocked

	return result, nil
}
