package request

type CreateBookingRequest struct {
	ComputerID string `json:"computer_id" validate:"required,uuid"`
	StartTime  string `json:"start_time" validate:"required"`
	EndTime    string `json:"end_time" validate:"required"`
}

// BookingRangeQuery is the optional calendar window of listing endpoints.
type BookingRangeQuery struct {
	StartDate string
	EndDate   string
}
