package entity

import (
	"time"

	"github.com/google/uuid"
)

// Stats is the admin dashboard summary.
type Stats struct {
	TotalUsers     int64 `db:"total_users"`
	TotalComputers int64 `db:"total_computers"`
	ActiveBookings int64 `db:"active_bookings"`
	TodayBookings  int64 `db:"today_bookings"`
}

// UsageRow is a booking joined with its owner and session timestamps.
type UsageRow struct {
	BookingID  uuid.UUID     `db:"booking_id"`
	UserID     uuid.UUID     `db:"user_id"`
	Username   string        `db:"username"`
	Fullname   string        `db:"fullname"`
	StartTime  time.Time     `db:"start_time"`
	EndTime    time.Time     `db:"end_time"`
	Status     BookingStatus `db:"status"`
	UnlockedAt *time.Time    `db:"unlocked_at"`
	LockedAt   *time.Time    `db:"locked_at"`
}

func (u *UsageRow) Booked() time.Duration {
	if d := u.EndTime.Sub(u.StartTime); d > 0 {
		return d
	}
	return 0
}

// Used is the part of the booking window the computer was unlocked.
// A session that was never locked counts until now.
func (u *UsageRow) Used(now time.Time) time.Duration {
	if u.UnlockedAt == nil {
		return 0
	}

	from := *u.UnlockedAt
	if from.Before(u.StartTime) {
		from = u.StartTime
	}
	to := now
	if u.LockedAt != nil {
		to = *u.LockedAt
	}
	if to.After(u.EndTime) {
		to = u.EndTime
	}

	if d := to.Sub(from); d > 0 {
		return d
	}
	return 0
}

// UserUsage aggregates one user's bookings in a report window.
type UserUsage struct {
	UserID   uuid.UUID
	Username string
	Fullname string
	Bookings int
	Booked   time.Duration
	Used     time.Duration
	NoShow   time.Duration
}

// SummarizeUsage groups rows by user, keeping the order users first appear in.
func SummarizeUsage(rows []*UsageRow, now time.Time) []*UserUsage {
	byUser := make(map[uuid.UUID]*UserUsage)
	var users []*UserUsage

	for _, r := range rows {
		agg, ok := byUser[r.UserID]
		if !ok {
			agg = &UserUsage{UserID: r.UserID, Username: r.Username, Fullname: r.Fullname}
			byUser[r.UserID] = agg
			users = append(users, agg)
		}

		booked := r.Booked()
		used := r.Used(now)
		agg.Bookings++
		agg.Booked += booked
		agg.Used += used
		if booked > used {
			agg.NoShow += booked - used
		}
	}

	return users
}
