package response

import (
	"time"

	"computer-booking/internal/data/entity"
)

type ComputerResponse struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	Description *string               `json:"description,omitempty"`
	Location    *string               `json:"location,omitempty"`
	Status      entity.ComputerStatus `json:"status"`
	IPAddress   *string               `json:"ip_address,omitempty"`
	MACAddress  *string               `json:"mac_address,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
}

type ComputerAvailabilityResponse struct {
	ComputerResponse
	IsCurrentlyBooked bool `json:"is_currently_booked"`
	IsCurrentlyInUse  bool `json:"is_currently_in_use"`
	IsBookedFuture    bool `json:"is_booked_future"`
}

func ComputerToResponse(c *entity.Computer) ComputerResponse {
	return ComputerResponse{
		ID:          c.ID.String(),
		Name:        c.Name,
		Description: c.Description,
		Location:    c.Location,
		Status:      c.Status,
		IPAddress:   c.IPAddress,
		MACAddress:  c.MACAddress,
		CreatedAt:   c.CreatedAt,
	}
}

func ComputersToResponse(computers []*entity.ComputerAvailability) []ComputerAvailabilityResponse {
	out := make([]ComputerAvailabilityResponse, 0, len(computers))
	for _, c := range computers {
		out = append(out, ComputerAvailabilityResponse{
			ComputerResponse:  ComputerToResponse(&c.Computer),
			IsCurrentlyBooked: c.IsCurrentlyBooked,
			IsCurrentlyInUse:  c.IsCurrentlyInUse,
			IsBookedFuture:    c.IsBookedFuture,
		})
	}
	return out
}
