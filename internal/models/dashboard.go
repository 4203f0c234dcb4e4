package models

type DashboardStats struct {
	TotalUsers        int64   `json:"totalUsers"`
	BannedUsers       int64   `json:"bannedUsers"`
	TotalMechanics    int64   `json:"totalMechanics"`
	OnlineMechanics   int64   `json:"onlineMechanics"`
	PendingMechanics  int64   `json:"pendingMechanics"`
	BannedMechanics   int64   `json:"bannedMechanics"`
	TotalBookings     int64   `json:"totalBookings"`
	ActiveBookings    int64   `json:"activeBookings"`
	CompletedBookings int64   `json:"completedBookings"`
	CancelledBookings int64   `json:"cancelledBookings"`
	TotalRevenue      float64 `json:"totalRevenue"`
	CompanyEarnings   float64 `json:"companyEarnings"`
	OpenQueries       int64   `json:"openQueries"`
	ActiveRegions     int64   `json:"activeRegions"`
}

// BookingTotals is the aggregate over completed bookings.
type BookingTotals struct {
	Revenue         float64 `bson:"revenue"`
	CompanyEarnings float64 `bson:"company_earnings"`
}

type Dashboard struct {
	Stats          DashboardStats `json:"stats"`
	RecentBookings []*Booking     `json:"recentBookings"`
}
