package response

import (
	"math"
	"time"

	"computer-booking/internal/data/entity"
)

type CreateComputerResponse struct {
	Message    string `json:"message"`
	ComputerID string `json:"computerId"`
}

type GroupResponse struct {
	GroupName             string `json:"group_name"`
	MaxConcurrentBookings int    `json:"max_concurrent_bookings"`
	NoShowMinutes         int    `json:"no_show_minutes"`
}

type UpsertGroupResponse struct {
	Message string        `json:"message"`
	Group   GroupResponse `json:"group"`
}

type SettingsResponse struct {
	MaxAdvanceDays int `json:"maxAdvanceDays"`
}

type StatsResponse struct {
	TotalUsers     int64 `json:"totalUsers"`
	TotalComputers int64 `json:"totalComputers"`
	ActiveBookings int64 `json:"activeBookings"`
	TodayBookings  int64 `json:"todayBookings"`
}

type UsageRange struct {
	From *string `json:"from"`
	To   *string `json:"to"`
}

type UsageTotals struct {
	Bookings    int     `json:"bookings"`
	BookedHours float64 `json:"bookedHours"`
	UsedHours   float64 `json:"usedHours"`
	NoShowHours float64 `json:"noShowHours"`
}

type UserUsageResponse struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Fullname string `json:"fullname"`
	UsageTotals
}

type UsageReportResponse struct {
	Range  UsageRange          `json:"range"`
	Totals UsageTotals         `json:"totals"`
	Users  []UserUsageResponse `json:"users"`
}

func GroupToResponse(g *entity.GroupLimit) GroupResponse {
	return GroupResponse{
		GroupName:             g.GroupName,
		MaxConcurrentBookings: g.MaxConcurrentBookings,
		NoShowMinutes:         g.NoShowMinutes,
	}
}

func GroupsToResponse(groups []*entity.GroupLimit) []GroupResponse {
	out := make([]GroupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, GroupToResponse(g))
	}
	return out
}

func StatsToResponse(s entity.Stats) StatsResponse {
	return StatsResponse{
		TotalUsers:     s.TotalUsers,
		TotalComputers: s.TotalComputers,
		ActiveBookings: s.ActiveBookings,
		TodayBookings:  s.TodayBookings,
	}
}

func hours(d time.Duration) float64 {
	return round2(d.Hours())
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// UsageToResponse renders per-user hours and totals. Totals are summed
// from the rounded per-user figures so the columns add up.
func UsageToResponse(rng UsageRange, users []*entity.UserUsage) UsageReportResponse {
	resp := UsageReportResponse{
		Range: rng,
		Users: make([]UserUsageResponse, 0, len(users)),
	}

	for _, u := range users {
		row := UserUsageResponse{
			UserID:   u.UserID.String(),
			Username: u.Username,
			Fullname: u.Fullname,
			UsageTotals: UsageTotals{
				Bookings:    u.Bookings,
				BookedHours: hours(u.Booked),
				UsedHours:   hours(u.Used),
				NoShowHours: hours(u.NoShow),
			},
		}
		resp.Users = append(resp.Users, row)

		resp.Totals.Bookings += row.Bookings
		resp.Totals.BookedHours = round2(resp.Totals.BookedHours + row.BookedHours)
		resp.Totals.UsedHours = round2(resp.Totals.UsedHours + row.UsedHours)
		resp.Totals.NoShowHours = round2(resp.Totals.NoShowHours + row.NoShowHours)
	}

	return resp
}
