package response

import (
	"time"

	"computer-booking/internal/data/entity"
)

type CreateBookingResponse struct {
	Message    string `json:"message"`
	BookingID  string `json:"bookingId"`
	UnlockCode string `json:"unlockCode"`
}

type BookingResponse struct {
	ID           string               `json:"id"`
	UserID       string               `json:"user_id"`
	ComputerID   string               `json:"computer_id"`
	StartTime    time.Time            `json:"start_time"`
	EndTime      time.Time            `json:"end_time"`
	Status       entity.BookingStatus `json:"status"`
	CreatedAt    time.Time            `json:"created_at"`
	Username     string               `json:"username,omitempty"`
	Fullname     string               `json:"fullname,omitempty"`
	ComputerName string               `json:"computer_name,omitempty"`
}

type ReconcileResponse struct {
	Message string `json:"message"`
	entity.ReconcileResult
}

func BookingToResponse(b *entity.BookingDetail) BookingResponse {
	return BookingResponse{
		ID:           b.ID.String(),
		UserID:       b.UserID.String(),
		ComputerID:   b.ComputerID.String(),
		StartTime:    b.StartTime,
		EndTime:      b.EndTime,
		Status:       b.Status,
		CreatedAt:    b.CreatedAt,
		Username:     b.Username,
		Fullname:     b.Fullname,
		ComputerName: b.ComputerName,
	}
}

func BookingsToResponse(bookings []*entity.BookingDetail) []BookingResponse {
	out := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, BookingToResponse(b))
	}
	return out
}
