package entities

import "github.com/shopspring/decimal"

type SpaceStats struct {
	TotalBookings  int             `json:"total_bookings"`
	ActiveBookings int             `json:"active_bookings"`
	TodayBookings  int             `json:"today_bookings"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	MonthlyRevenue decimal.Decimal `json:"monthly_revenue"`
	OccupancyRate  float64         `json:"occupancy_rate"`
}

type DashboardStats struct {
	TotalSpaces    int             `json:"total_spaces"`
	TotalSlots     int             `json:"total_slots"`
	AvailableSlots int             `json:"available_slots"`
	ActiveBookings int             `json:"active_bookings"`
	TodayBookings  int             `json:"today_bookings"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	MonthlyRevenue decimal.Decimal `json:"monthly_revenue"`
}
