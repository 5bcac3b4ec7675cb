// Package dashboard computes occupancy and revenue figures over a snapshot of rooms and
// reservations. The aggregation functions are pure; Service only loads the snapshot.
package dashboard

import (
	"math"
	"net/http"
	"time"

	"github.com/nekogravitycat/lodging-reservation-backend/internal/daterange"
	"github.com/nekogravitycat/lodging-reservation-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/lodging-reservation-backend/internal/reservation"
	"github.com/nekogravitycat/lodging-reservation-backend/internal/room"
)

var ErrSeriesTooLong = apperror.New(http.StatusBadRequest, "occupancy window is too long")

// Stats summarises the current state of the property.
type Stats struct {
	TotalRooms           int
	AvailableRooms       int
	OccupiedRooms        int
	MaintenanceRooms     int
	OccupancyRate        float64 // percent of rooms not AVAILABLE
	TotalReservations    int
	ReservationsByStatus map[reservation.Status]int
	Revenue              float64
}

// DailyOccupancy is one day of an occupancy series.
type DailyOccupancy struct {
	Date          time.Time
	OccupiedRooms int
	TotalRooms    int
	Rate          float64
}

// StatusDrift is a room whose cached status disagrees with its reservations.
type StatusDrift struct {
	RoomID     string
	RoomNumber string
	Cached     room.Status
	Expected   room.Status
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(part) / float64(total) * 100)
}

// DashboardStats counts rooms by status and reservations by status, and sums the revenue
// of realized stays. Stays whose room is unknown or whose dates are invalid add no revenue.
func DashboardStats(rooms []*room.Room, reservations []*reservation.Reservation) Stats {
	s := Stats{
		TotalRooms:           len(rooms),
		TotalReservations:    len(reservations),
		ReservationsByStatus: make(map[reservation.Status]int, len(reservation.AllStatuses)),
	}
	for _, st := range reservation.AllStatuses {
		s.ReservationsByStatus[st] = 0
	}

	price := make(map[string]float64, len(rooms))
	for _, r := range rooms {
		price[r.ID] = r.PricePerNight
		switch r.Status {
		case room.StatusAvailable:
			s.AvailableRooms++
		case room.StatusOccupied:
			s.OccupiedRooms++
		case room.StatusMaintenance:
			s.MaintenanceRooms++
		}
	}
	s.OccupancyRate = percent(s.TotalRooms-s.AvailableRooms, s.TotalRooms)

	var revenue float64
	for _, res := range reservations {
		s.ReservationsByStatus[res.Status]++
		if !res.Status.IsRealized() {
			continue
		}
		p, ok := price[res.RoomID]
		if !ok {
			continue
		}
		nights, err := daterange.NightCount(res.CheckInDate, res.CheckOutDate)
		if err != nil {
			continue
		}
		revenue += float64(nights) * p
	}
	s.Revenue = round2(revenue)

	return s
}

// OccupancySeries returns one entry per calendar day of [from, to], both inclusive.
// A room is occupied on day d when an active reservation's [check-in, check-out) contains d.
// maxDays bounds the window length; 0 disables the bound.
func OccupancySeries(rooms []*room.Room, reservations []*reservation.Reservation, from, to time.Time, maxDays int) ([]DailyOccupancy, error) {
	if from.IsZero() || to.IsZero() {
		return nil, daterange.ErrInvalidDateRange.With("from and to dates are required")
	}
	from, to = daterange.Normalize(from), daterange.Normalize(to)
	if from.After(to) {
		return nil, daterange.ErrInvalidDateRange.With("from date must not be after to date")
	}
	days := int(to.Sub(from).Hours()/24) + 1
	if maxDays > 0 && days > maxDays {
		return nil, ErrSeriesTooLong.With("occupancy window spans %d days, at most %d allowed", days, maxDays)
	}

	known := make(map[string]bool, len(rooms))
	for _, r := range rooms {
		known[r.ID] = true
	}
	var stays []*reservation.Reservation
	for _, res := range reservations {
		if res.Status.IsActive() && known[res.RoomID] && res.Range().Validate() == nil {
			stays = append(stays, res)
		}
	}

	series := make([]DailyOccupancy, 0, days)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		occupied := make(map[string]bool)
		for _, res := range stays {
			if res.Range().Contains(d) {
				occupied[res.RoomID] = true
			}
		}
		series = append(series, DailyOccupancy{
			Date:          d,
			OccupiedRooms: len(occupied),
			TotalRooms:    len(rooms),
			Rate:          percent(len(occupied), len(rooms)),
		})
	}
	return series, nil
}

// AuditRoomStatus recomputes each room's status from its CHECKED_IN reservations and
// reports the rooms whose cached status differs. Rooms under maintenance are not reported.
func AuditRoomStatus(rooms []*room.Room, reservations []*reservation.Reservation) []StatusDrift {
	checkedIn := make(map[string]bool)
	for _, res := range reservations {
		if res.Status == reservation.StatusCheckedIn {
			checkedIn[res.RoomID] = true
		}
	}

	var drift []StatusDrift
	for _, r := range rooms {
		expected := reservation.ExpectedRoomStatus(r.Status, checkedIn[r.ID])
		if expected != r.Status {
			drift = append(drift, StatusDrift{
				RoomID:     r.ID,
				RoomNumber: r.RoomNumber,
				Cached:     r.Status,
				Expected:   expected,
			})
		}
	}
	return drift
}
