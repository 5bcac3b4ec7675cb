package reservation

import (
	"fmt"

	"github.com/nekogravitycat/lodging-reservation-backend/internal/room"
)

// Status is the lifecycle state of a reservation.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusConfirmed  Status = "CONFIRMED"
	StatusCheckedIn  Status = "CHECKED_IN"
	StatusCheckedOut Status = "CHECKED_OUT"
	StatusCancelled  Status = "CANCELLED"
)

// AllStatuses lists every status in lifecycle order.
var AllStatuses = []Status{StatusPending, StatusConfirmed, StatusCheckedIn, StatusCheckedOut, StatusCancelled}

// edge is an allowed move out of a state.
type edge struct {
	to        Status
	adminOnly bool
}

// transitions is the complete state machine. A status with no edges is terminal.
var transitions = map[Status][]edge{
	StatusPending:    {{to: StatusConfirmed}, {to: StatusCancelled}},
	StatusConfirmed:  {{to: StatusCheckedIn}, {to: StatusCancelled}},
	StatusCheckedIn:  {{to: StatusCheckedOut}, {to: StatusCancelled, adminOnly: true}},
	StatusCheckedOut: nil,
	StatusCancelled:  nil,
}

func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// IsActive reports whether a reservation in this status holds its room's calendar.
func (s Status) IsActive() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCheckedIn:
		return true
	}
	return false
}

// IsRealized reports whether the stay counts toward revenue.
func (s Status) IsRealized() bool {
	switch s {
	case StatusConfirmed, StatusCheckedIn, StatusCheckedOut:
		return true
	}
	return false
}

func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// CanTransitionTo reports whether target is reachable from s in one step.
// Admin-only edges require isAdmin.
func (s Status) CanTransitionTo(target Status, isAdmin bool) bool {
	for _, e := range transitions[s] {
		if e.to == target {
			return !e.adminOnly || isAdmin
		}
	}
	return false
}

// Next lists the statuses reachable from s for the given privilege.
func (s Status) Next(isAdmin bool) []Status {
	var out []Status
	for _, e := range transitions[s] {
		if !e.adminOnly || isAdmin {
			out = append(out, e.to)
		}
	}
	return out
}

// ParseStatus converts a string to a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", ErrInvalidStatus.With("invalid reservation status: %s", s)
	}
	return st, nil
}

// TransitionError reports a rejected status change with the reservation and both statuses.
type TransitionError struct {
	ReservationID string
	From          Status
	To            Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move reservation %s from %s to %s", e.ReservationID, e.From, e.To)
}

// Unwrap exposes an ErrInvalidStatusTransition carrying the same message,
// so errors.Is and the HTTP error mapping both see it.
func (e *TransitionError) Unwrap() error {
	return ErrInvalidStatusTransition.With("%s", e.Error())
}

// roomStatusAfter returns the room status that a move to target implies, and whether the
// room must be written at all. hasCheckedIn reports whether another stay in the room is
// still checked in once the move is applied.
func roomStatusAfter(from, target Status, current room.Status, hasCheckedIn bool) (room.Status, bool) {
	switch {
	case target == StatusCheckedIn:
		return room.StatusOccupied, current != room.StatusOccupied
	case from == StatusCheckedIn:
		next := ExpectedRoomStatus(current, hasCheckedIn)
		return next, next != current
	}
	return current, false
}

// ExpectedRoomStatus derives a room's status from its reservations.
// MAINTENANCE is an administrative override and is always kept.
func ExpectedRoomStatus(current room.Status, hasCheckedIn bool) room.Status {
	if current == room.StatusMaintenance {
		return room.StatusMaintenance
	}
	if hasCheckedIn {
		return room.StatusOccupied
	}
	return room.StatusAvailable
}
