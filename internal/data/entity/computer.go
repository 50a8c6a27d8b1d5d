package entity

type ComputerStatus string

const (
	ComputerStatusAvailable   ComputerStatus = "available"
	ComputerStatusMaintenance ComputerStatus = "maintenance"
	ComputerStatusDisabled    ComputerStatus = "disabled"
)

type Computer struct {
	Base
	Name        string         `db:"name"`
	Description *string        `db:"description"`
	Location    *string        `db:"location"`
	Status      ComputerStatus `db:"status"`
	IPAddress   *string        `db:"ip_address"`
	MACAddress  *string        `db:"mac_address"`
}

func (c *Computer) IsBookable() bool {
	return c.Status == ComputerStatusAvailable
}

// ComputerAvailability is a computer with its booking state at a point in time.
type ComputerAvailability struct {
	Computer
	IsCurrentlyBooked bool `db:"is_currently_booked"`
	IsCurrentlyInUse  bool `db:"is_currently_in_use"`
	IsBookedFuture    bool `db:"is_booked_future"`
}
