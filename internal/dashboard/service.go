package dashboard

import (
	"context"
	"time"

	"github.com/nekogravitycat/lodging-reservation-backend/internal/reservation"
	"github.com/nekogravitycat/lodging-reservation-backend/internal/room"
	"github.com/nekogravitycat/lodging-reservation-backend/internal/user"
)

type Service interface {
	Stats(ctx context.Context) (Stats, error)
	Occupancy(ctx context.Context, from, to time.Time) ([]DailyOccupancy, error)
	RecentReservations(ctx context.Context, limit int) ([]*reservation.Reservation, error)
	Users(ctx context.Context, page, pageSize int) ([]*user.User, int, error)
	Audit(ctx context.Context) ([]StatusDrift, error)
}

type service struct {
	tx            reservation.TxManager
	users         user.Service
	maxSeriesDays int
}

func NewService(tx reservation.TxManager, users user.Service, maxSeriesDays int) Service {
	return &service{tx: tx, users: users, maxSeriesDays: maxSeriesDays}
}

// snapshot loads every room and reservation at one point in time.
func (s *service) snapshot(ctx context.Context) ([]*room.Room, []*reservation.Reservation, error) {
	var rooms []*room.Room
	var reservations []*reservation.Reservation
	err := s.tx.WithinSnapshot(ctx, func(ctx context.Context, st reservation.Stores) error {
		var err error
		if rooms, err = st.Rooms.ListAll(ctx); err != nil {
			return err
		}
		reservations, err = st.Reservations.ListAll(ctx)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return rooms, reservations, nil
}

func (s *service) Stats(ctx context.Context) (Stats, error) {
	rooms, reservations, err := s.snapshot(ctx)
	if err != nil {
		return Stats{}, err
	}
	return DashboardStats(rooms, reservations), nil
}

func (s *service) Occupancy(ctx context.Context, from, to time.Time) ([]DailyOccupancy, error) {
	// Reject bad windows before touching storage.
	if _, err := OccupancySeries(nil, nil, from, to, s.maxSeriesDays); err != nil {
		return nil, err
	}
	rooms, reservations, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return OccupancySeries(rooms, reservations, from, to, s.maxSeriesDays)
}

func (s *service) RecentReservations(ctx context.Context, limit int) ([]*reservation.Reservation, error) {
	var list []*reservation.Reservation
	err := s.tx.WithinSnapshot(ctx, func(ctx context.Context, st reservation.Stores) error {
		var err error
		list, _, err = st.Reservations.List(ctx, reservation.Filter{
			Page:      1,
			PageSize:  limit,
			SortBy:    "created_at",
			SortOrder: "DESC",
		})
		return err
	})
	return list, err
}

func (s *service) Users(ctx context.Context, page, pageSize int) ([]*user.User, int, error) {
	return s.users.List(ctx, user.Filter{
		Page:      page,
		PageSize:  pageSize,
		SortBy:    "created_at",
		SortOrder: "DESC",
	})
}

func (s *service) Audit(ctx context.Context) ([]StatusDrift, error) {
	rooms, reservations, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return AuditRoomStatus(rooms, reservations), nil
}
