package reservation

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgerrcode"

	"github.com/nekogravitycat/lodging-reservation-backend/internal/daterange"
	"github.com/nekogravitycat/lodging-reservation-backend/internal/db"
	"github.com/nekogravitycat/lodging-reservation-backend/internal/pkg/clock"
	"github.com/nekogravitycat/lodging-reservation-backend/internal/room"
)

type CreateRequest struct {
	UserID   string
	RoomID   string
	CheckIn  time.Time
	CheckOut time.Time
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Reservation, error)
	GetByID(ctx context.Context, id string) (*Reservation, error)
	List(ctx context.Context, filter Filter) ([]*Reservation, int, error)
	Confirm(ctx context.Context, id string) (*Reservation, error)
	CheckIn(ctx context.Context, id string) (*Reservation, error)
	CheckOut(ctx context.Context, id string) (*Reservation, error)
	// Cancel cancels on behalf of requesterID. Non-admins may only cancel their own
	// reservations; cancelling a checked-in stay is reserved to admins.
	Cancel(ctx context.Context, id, requesterID string, isAdmin bool) (*Reservation, error)
	CheckAvailability(ctx context.Context, roomID string, rng daterange.Range) (bool, error)
	// SetRoomMaintenance puts a room into MAINTENANCE or takes it out again. Leaving
	// maintenance restores the status implied by the room's checked-in reservations.
	SetRoomMaintenance(ctx context.Context, roomID string, on bool) (*room.Room, error)
}

type service struct {
	tx    TxManager
	repo  Repository
	rooms room.Repository
	clock clock.Clock
}

func NewService(tx TxManager, repo Repository, rooms room.Repository, c clock.Clock) Service {
	return &service{tx: tx, repo: repo, rooms: rooms, clock: c}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Reservation, error) {
	if req.UserID == "" || req.RoomID == "" {
		return nil, ErrInvalidInput.With("user and room are required")
	}
	rng, err := daterange.New(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}
	if err := daterange.ValidateCheckIn(s.clock, rng.CheckIn); err != nil {
		return nil, err
	}

	res := &Reservation{
		UserID:       req.UserID,
		RoomID:       req.RoomID,
		CheckInDate:  rng.CheckIn,
		CheckOutDate: rng.CheckOut,
		Status:       StatusPending,
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context, st Stores) error {
		// The room lock serializes bookings of the same room.
		rm, err := st.Rooms.GetForUpdate(ctx, req.RoomID)
		if err != nil {
			return err
		}

		active, err := st.Reservations.FindActiveByRoom(ctx, rm.ID)
		if err != nil {
			return err
		}
		conflicts, err := FindConflicts(rm.ID, rng, active)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return ErrRoomNotAvailable.With("room %s is already booked for %s", rm.RoomNumber, conflicts[0].Range())
		}

		if err := st.Reservations.Create(ctx, res); err != nil {
			return err
		}
		res.RoomNumber = rm.RoomNumber
		return nil
	})
	if err != nil {
		if db.IsPgError(err, pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected) {
			return nil, ErrRoomNotAvailable
		}
		return nil, err
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Reservation, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Reservation, int, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, 0, ErrInvalidStatus
	}
	return s.repo.List(ctx, filter)
}

func (s *service) Confirm(ctx context.Context, id string) (*Reservation, error) {
	return s.transition(ctx, id, StatusConfirmed, true, nil)
}

func (s *service) CheckIn(ctx context.Context, id string) (*Reservation, error) {
	return s.transition(ctx, id, StatusCheckedIn, true, nil)
}

func (s *service) CheckOut(ctx context.Context, id string) (*Reservation, error) {
	return s.transition(ctx, id, StatusCheckedOut, true, nil)
}

func (s *service) Cancel(ctx context.Context, id, requesterID string, isAdmin bool) (*Reservation, error) {
	return s.transition(ctx, id, StatusCancelled, isAdmin, func(r *Reservation) error {
		if !isAdmin && r.UserID != requesterID {
			return ErrUnauthorizedAccess.With("user %s cannot cancel reservation %s", requesterID, r.ID)
		}
		return nil
	})
}

// transition moves a reservation to target and applies the room status side effect
// in the same transaction. guard runs before the status check.
func (s *service) transition(ctx context.Context, id string, target Status, isAdmin bool, guard func(*Reservation) error) (*Reservation, error) {
	var out *Reservation
	err := s.tx.WithinTx(ctx, func(ctx context.Context, st Stores) error {
		// Rooms are locked before reservations everywhere; the room of a reservation never changes.
		peek, err := st.Reservations.GetByID(ctx, id)
		if err != nil {
			return err
		}
		rm, err := st.Rooms.GetForUpdate(ctx, peek.RoomID)
		if err != nil {
			return err
		}
		current, err := st.Reservations.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if guard != nil {
			if err := guard(current); err != nil {
				return err
			}
		}
		if !current.Status.CanTransitionTo(target, isAdmin) {
			return &TransitionError{ReservationID: current.ID, From: current.Status, To: target}
		}

		updated, err := st.Reservations.UpdateStatus(ctx, id, target)
		if err != nil {
			return err
		}

		hasCheckedIn := false
		if current.Status == StatusCheckedIn {
			hasCheckedIn, err = st.Reservations.HasCheckedIn(ctx, rm.ID)
			if err != nil {
				return err
			}
		}
		if next, write := roomStatusAfter(current.Status, target, rm.Status, hasCheckedIn); write {
			if _, err := st.Rooms.UpdateStatus(ctx, rm.ID, next); err != nil {
				return err
			}
		}

		out = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) CheckAvailability(ctx context.Context, roomID string, rng daterange.Range) (bool, error) {
	if err := rng.Validate(); err != nil {
		return false, err
	}
	if _, err := s.rooms.GetByID(ctx, roomID); err != nil {
		return false, err
	}
	active, err := s.repo.FindActiveByRoom(ctx, roomID)
	if err != nil {
		return false, err
	}
	return IsRoomAvailable(roomID, rng, active)
}

func (s *service) SetRoomMaintenance(ctx context.Context, roomID string, on bool) (*room.Room, error) {
	var out *room.Room
	err := s.tx.WithinTx(ctx, func(ctx context.Context, st Stores) error {
		rm, err := st.Rooms.GetForUpdate(ctx, roomID)
		if err != nil {
			return err
		}

		next := room.StatusMaintenance
		if !on {
			hasCheckedIn, err := st.Reservations.HasCheckedIn(ctx, roomID)
			if err != nil {
				return err
			}
			next = ExpectedRoomStatus(room.StatusAvailable, hasCheckedIn)
		}
		if next == rm.Status {
			out = rm
			return nil
		}

		out, err = st.Rooms.UpdateStatus(ctx, roomID, next)
		return err
	})
	if err != nil {
		return nil, err
	}
	if on {
		log.Printf("room %s (%s) placed under maintenance", out.RoomNumber, out.ID)
	}
	return out, nil
}
