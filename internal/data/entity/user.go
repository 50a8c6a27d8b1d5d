package entity

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

const DefaultGroup = "default"

type User struct {
	Base
	Username     string   `db:"username"`
	PasswordHash string   `db:"password_hash"`
	Fullname     string   `db:"fullname"`
	Email        *string  `db:"email"`
	Role         UserRole `db:"role"`
	GroupName    string   `db:"group_name"`
	// MaxConcurrentBookings overrides the group limit when set and nonzero.
	MaxConcurrentBookings *int `db:"max_concurrent_bookings"`
	Banned                bool `db:"banned"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// EffectiveMaxBookings resolves a user's concurrent booking limit:
// the user override, then the group limit, then 1.
func EffectiveMaxBookings(user *User, group *GroupLimit) int {
	if user != nil && user.MaxConcurrentBookings != nil && *user.MaxConcurrentBookings != 0 {
		return *user.MaxConcurrentBookings
	}
	if group != nil && group.MaxConcurrentBookings != 0 {
		return group.MaxConcurrentBookings
	}
	return 1
}

// MaxSlots is the quota in 30-minute slots for a concurrent booking limit.
func MaxSlots(maxBookings int) int {
	return maxBookings * 2
}
