package entity

import (
	"time"

	"github.com/google/uuid"
)

type SessionStatus string

const (
	SessionStatusLocked   SessionStatus = "locked"
	SessionStatusUnlocked SessionStatus = "unlocked"
)

// Session tracks physical access for exactly one booking.
type Session struct {
	ID         uuid.UUID     `db:"id"`
	BookingID  uuid.UUID     `db:"booking_id"`
	UnlockCode string        `db:"unlock_code"`
	UnlockedAt *time.Time    `db:"unlocked_at"`
	LockedAt   *time.Time    `db:"locked_at"`
	Status     SessionStatus `db:"status"`
}

// UnlockTarget is a session joined with the booking it opens.
type UnlockTarget struct {
	Session
	ComputerID    uuid.UUID     `db:"computer_id"`
	StartTime     time.Time     `db:"start_time"`
	EndTime       time.Time     `db:"end_time"`
	BookingStatus BookingStatus `db:"booking_status"`
}
