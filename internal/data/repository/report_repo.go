package repository

import (
	"context"
	"fmt"
	"time"

	"computer-booking/internal/data/entity"
	"computer-booking/pkg/database"

	"go.uber.org/zap"
)

type ReportRepository interface {
	// Stats counts non-admin users, computers, bookings live at now and
	// bookings starting in [dayStart, dayEnd).
	Stats(ctx context.Context, now, dayStart, dayEnd time.Time) (entity.Stats, error)
	// UsageRows lists bookings inside the optional window, newest first.
	UsageRows(ctx context.Context, from, to *time.Time) ([]*entity.UsageRow, error)
}

type reportRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewReportRepository(db database.Querier, log *zap.Logger) ReportRepository {
	return &reportRepository{
		db:  db,
		log: log.With(zap.String("repository", "report")),
	}
}

func (r *reportRepository) Stats(ctx context.Context, now, dayStart, dayEnd time.Time) (entity.Stats, error) {
	query := `
		SELECT
		    (SELECT COUNT(*) FROM users WHERE role <> 'admin'),
		    (SELECT COUNT(*) FROM computers),
		    (SELECT COUNT(*) FROM bookings
		     WHERE status IN ('pending', 'active') AND start_time <= $1 AND end_time > $1),
		    (SELECT COUNT(*) FROM bookings
		     WHERE start_time >= $2 AND start_time < $3)
	`

	var stats entity.Stats
	err := r.db.QueryRow(ctx, query, now, dayStart, dayEnd).Scan(
		&stats.TotalUsers,
		&stats.TotalComputers,
		&stats.ActiveBookings,
		&stats.TodayBookings,
	)
	if err != nil {
		r.log.Error("Failed to load stats", zap.Error(err))
		return entity.Stats{}, fmt.Errorf("load stats: %w", err)
	}

	return stats, nil
}

func (r *reportRepository) UsageRows(ctx context.Context, from, to *time.Time) ([]*entity.UsageRow, error) {
	query := `
		SELECT b.id, b.user_id, u.username, u.fullname, b.start_time, b.end_time, b.status,
		       s.unlocked_at, s.locked_at
		FROM bookings b
		JOIN users u ON u.id = b.user_id
		LEFT JOIN sessions s ON s.booking_id = b.id
		WHERE ($1::timestamptz IS NULL OR b.start_time >= $1)
		  AND ($2::timestamptz IS NULL OR b.end_time <= $2)
		ORDER BY b.start_time DESC
	`

	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		r.log.Error("Failed to load usage rows", zap.Error(err))
		return nil, fmt.Errorf("load usage rows: %w", err)
	}
	defer rows.Close()

	var usage []*entity.UsageRow
	for rows.Next() {
		var u entity.UsageRow
		err := rows.Scan(
			&u.BookingID,
			&u.UserID,
			&u.Username,
			&u.Fullname,
			&u.StartTime,
			&u.EndTime,
			&u.Status,
			&u.UnlockedAt,
			&u.LockedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan usage row", zap.Error(err))
			return nil, fmt.Errorf("scan usage row: %w", err)
		}
		usage = append(usage, &u)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate usage rows: %w", err)
	}

	return usage, nil
}
