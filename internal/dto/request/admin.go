package request

type AdminCreateUserRequest struct {
	Username              string  `json:"username" validate:"required,min=3,max=50"`
	Password              string  `json:"password" validate:"required,min=6"`
	Fullname              string  `json:"fullname" validate:"required,max=100"`
	Email                 *string `json:"email,omitempty" validate:"omitempty,email"`
	Role                  string  `json:"role" validate:"omitempty,oneof=user admin"`
	GroupName             string  `json:"group_name" validate:"omitempty,max=50"`
	MaxConcurrentBookings *int    `json:"max_concurrent_bookings" validate:"omitempty,min=0"`
}

// AdminUpdateUserRequest changes only the fields that are present.
type AdminUpdateUserRequest struct {
	Fullname              *string `json:"fullname" validate:"omitempty,min=1,max=100"`
	Email                 *string `json:"email" validate:"omitempty,email"`
	Role                  *string `json:"role" validate:"omitempty,oneof=user admin"`
	GroupName             *string `json:"group_name" validate:"omitempty,min=1,max=50"`
	MaxConcurrentBookings *int    `json:"max_concurrent_bookings" validate:"omitempty,min=0"`
	Banned                *bool   `json:"banned"`
	Password              *string `json:"password" validate:"omitempty,min=6"`
}

type CreateComputerRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description"`
	Location    *string `json:"location"`
	Status      string  `json:"status" validate:"omitempty,oneof=available maintenance disabled"`
	IPAddress   *string `json:"ip_address" validate:"omitempty,ip"`
	MACAddress  *string `json:"mac_address" validate:"omitempty,mac"`
}

// UpdateComputerRequest changes only the fields that are present.
type UpdateComputerRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description"`
	Location    *string `json:"location"`
	Status      *string `json:"status" validate:"omitempty,oneof=available maintenance disabled"`
	IPAddress   *string `json:"ip_address" validate:"omitempty,ip"`
	MACAddress  *string `json:"mac_address" validate:"omitempty,mac"`
}

type UpsertGroupRequest struct {
	GroupName             string `json:"group_name" validate:"required,max=50"`
	MaxConcurrentBookings *int   `json:"max_concurrent_bookings" validate:"required,min=0"`
	NoShowMinutes         *int   `json:"no_show_minutes" validate:"omitempty,min=0"`
}

type UpdateSettingsRequest struct {
	MaxAdvanceDays int `json:"maxAdvanceDays" validate:"required,min=1,max=365"`
}

// AdminBookingQuery filters the admin booking list.
type AdminBookingQuery struct {
	Status string
	Limit  int
}

// UsageReportQuery is the optional window of the usage report.
type UsageReportQuery struct {
	From string
	To   string
}
