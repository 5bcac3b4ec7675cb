package http

import (
	"github.com/nekogravitycat/lodging-reservation-backend/internal/dashboard"
	"github.com/nekogravitycat/lodging-reservation-backend/internal/daterange"
	"github.com/nekogravitycat/lodging-reservation-backend/internal/pkg/request"
)

type OccupancyRequest struct {
	From string `form:"from" binding:"required"`
	To   string `form:"to" binding:"required"`
}

type RecentReservationsRequest struct {
	Limit int `form:"limit"`
}

type ListUsersRequest struct {
	request.ListParams
}

type StatsResponse struct {
	TotalRooms           int            `json:"total_rooms"`
	AvailableRooms       int            `json:"available_rooms"`
	OccupiedRooms        int            `json:"occupied_rooms"`
	MaintenanceRooms     int            `json:"maintenance_rooms"`
	OccupancyRate        float64        `json:"occupancy_rate"`
	TotalReservations    int            `json:"total_reservations"`
	ReservationsByStatus map[string]int `json:"reservations_by_status"`
	Revenue              float64        `json:"revenue"`
}

func NewStatsResponse(s dashboard.Stats) StatsResponse {
	byStatus := make(map[string]int, len(s.ReservationsByStatus))
	for k, v := range s.ReservationsByStatus {
		byStatus[string(k)] = v
	}
	return StatsResponse{
		TotalRooms:           s.TotalRooms,
		AvailableRooms:       s.AvailableRooms,
		OccupiedRooms:        s.OccupiedRooms,
		MaintenanceRooms:     s.MaintenanceRooms,
		OccupancyRate:        s.OccupancyRate,
		TotalReservations:    s.TotalReservations,
		ReservationsByStatus: byStatus,
		Revenue:              s.Revenue,
	}
}

type DailyOccupancyResponse struct {
	Date          string  `json:"date"`
	OccupiedRooms int     `json:"occupied_rooms"`
	TotalRooms    int     `json:"total_rooms"`
	Rate          float64 `json:"rate"`
}

func NewDailyOccupancyResponse(d dashboard.DailyOccupancy) DailyOccupancyResponse {
	return DailyOccupancyResponse{
		Date:          d.Date.Format(daterange.DateLayout),
		OccupiedRooms: d.OccupiedRooms,
		TotalRooms:    d.TotalRooms,
		Rate:          d.Rate,
	}
}

type StatusDriftResponse struct {
	RoomID         string `json:"room_id"`
	RoomNumber     string `json:"room_number"`
	CachedStatus   string `json:"cached_status"`
	ExpectedStatus string `json:"expected_status"`
}

type AuditResponse struct {
	Consistent bool                  `json:"consistent"`
	Drift      []StatusDriftResponse `json:"drift"`
}
