package repository

import (
	"context"
	"testing"
	"time"

	"computer-booking/internal/data/entity"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportStats(t *testing.T) {
	mock, repo := newMockRepository(t)
	now := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
	dayStart := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	mock.ExpectQuery(`start_time <= \$1 AND end_time > \$1\),\s+\(SELECT COUNT\(\*\) FROM bookings\s+WHERE start_time >= \$2 AND start_time < \$3\)`).
		WithArgs(now, dayStart, dayEnd).
		WillReturnRows(pgxmock.NewRows([]string{"users", "computers", "active", "today"}).
			AddRow(int64(12), int64(5), int64(2), int64(7)))

	stats, err := repo.Report.Stats(context.Background(), now, dayStart, dayEnd)

	require.NoError(t, err)
	assert.Equal(t, entity.Stats{TotalUsers: 12, TotalComputers: 5, ActiveBookings: 2, TodayBookings: 7}, stats)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportUsageRows(t *testing.T) {
	mock, repo := newMockRepository(t)
	start := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	unlocked := start.Add(5 * time.Minute)
	from := start.Add(-24 * time.Hour)

	mock.ExpectQuery("LEFT JOIN sessions s ON s.booking_id = b.id").
		WithArgs(&from, (*time.Time)(nil)).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "user_id", "username", "fullname", "start_time", "end_time", "status", "unlocked_at", "locked_at",
		}).AddRow(
			uuid.New(), uuid.New(), "alice", "Alice", start, start.Add(time.Hour), entity.BookingStatusActive,
			&unlocked, (*time.Time)(nil),
		))

	rows, err := repo.Report.UsageRows(context.Background(), &from, nil)

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "alice", rows[0].Username)
	require.NotNil(t, rows[0].UnlockedAt)
	assert.Nil(t, rows[0].LockedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}
