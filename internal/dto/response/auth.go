package response

import (
	"time"

	"computer-booking/internal/data/entity"
)

type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

type RegisterResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

type UserResponse struct {
	ID                    string          `json:"id"`
	Username              string          `json:"username"`
	Fullname              string          `json:"fullname"`
	Email                 *string         `json:"email,omitempty"`
	Role                  entity.UserRole `json:"role"`
	GroupName             string          `json:"group_name"`
	MaxConcurrentBookings *int            `json:"max_concurrent_bookings"`
	Banned                bool            `json:"banned"`
	CreatedAt             time.Time       `json:"created_at"`
}

// ProfileResponse adds the resolved booking quota to the user.
type ProfileResponse struct {
	UserResponse
	EffectiveMaxBookings int `json:"effective_max_bookings"`
	MaxSlots             int `json:"max_slots"`
	UsedSlots            int `json:"used_slots"`
}

// Helper converters
func UserToResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:                    user.ID.String(),
		Username:              user.Username,
		Fullname:              user.Fullname,
		Email:                 user.Email,
		Role:                  user.Role,
		GroupName:             user.GroupName,
		MaxConcurrentBookings: user.MaxConcurrentBookings,
		Banned:                user.Banned,
		CreatedAt:             user.CreatedAt,
	}
}

func UsersToResponse(users []*entity.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, UserToResponse(u))
	}
	return out
}
