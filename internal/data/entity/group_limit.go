package entity

const DefaultNoShowMinutes = 15

type GroupLimit struct {
	GroupName             string `db:"group_name"`
	MaxConcurrentBookings int    `db:"max_concurrent_bookings"`
	// NoShowMinutes of 0 disables no-show cancellation for the group.
	NoShowMinutes int `db:"no_show_minutes"`
}
