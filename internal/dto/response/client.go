package response

import "time"

type CheckUnlockBooking struct {
	ID         string    `json:"id"`
	User       string    `json:"user"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	UnlockCode string    `json:"unlock_code"`
}

type CheckUnlockResponse struct {
	ShouldUnlock bool                `json:"shouldUnlock"`
	Booking      *CheckUnlockBooking `json:"booking,omitempty"`
	Message      string              `json:"message"`
}

type UnlockResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	EndTime time.Time `json:"end_time"`
}

type LockResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Completed int64  `json:"completed"`
}
