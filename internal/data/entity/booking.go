package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusActive    BookingStatus = "active"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// SlotDuration is the unit quotas are counted in.
const SlotDuration = 30 * time.Minute

// IsLive reports whether the status still holds the computer.
func (s BookingStatus) IsLive() bool {
	return s == BookingStatusPending || s == BookingStatusActive
}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusActive, BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}

// Booking reserves a computer for the half-open interval [StartTime, EndTime).
type Booking struct {
	Base
	UserID     uuid.UUID     `db:"user_id"`
	ComputerID uuid.UUID     `db:"computer_id"`
	StartTime  time.Time     `db:"start_time"`
	EndTime    time.Time     `db:"end_time"`
	Status     BookingStatus `db:"status"`
}

// BookingDetail is a booking joined with the names shown in listings.
type BookingDetail struct {
	Booking
	Username     string `db:"username"`
	Fullname     string `db:"fullname"`
	ComputerName string `db:"computer_name"`
}

// Overlaps reports whether [s1, e1) and [s2, e2) intersect.
// Intervals that only touch at an endpoint do not overlap.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

// SlotCount is the number of 30-minute slots the interval occupies, rounded up.
func SlotCount(start, end time.Time) int {
	d := end.Sub(start)
	if d <= 0 {
		return 0
	}
	return int((d + SlotDuration - 1) / SlotDuration)
}

func (b *Booking) Slots() int {
	return SlotCount(b.StartTime, b.EndTime)
}

func (b *Booking) OverlapsInterval(start, end time.Time) bool {
	return Overlaps(b.StartTime, b.EndTime, start, end)
}

// StatusAt is the status reconciliation would assign at now.
// Terminal statuses never change.
func (b *Booking) StatusAt(now time.Time) BookingStatus {
	switch b.Status {
	case BookingStatusPending:
		if !now.Before(b.EndTime) {
			return BookingStatusCancelled
		}
		if !now.Before(b.StartTime) {
			return BookingStatusActive
		}
	case BookingStatusActive:
		if !now.Before(b.EndTime) {
			return BookingStatusCompleted
		}
	}
	return b.Status
}

// IsCurrent reports whether now falls inside the booking.
func (b *Booking) IsCurrent(now time.Time) bool {
	return !now.Before(b.StartTime) && now.Before(b.EndTime)
}
