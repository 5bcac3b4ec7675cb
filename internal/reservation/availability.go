package reservation

import (
	"github.com/nekogravitycat/lodging-reservation-backend/internal/daterange"
)

// FindConflicts returns the reservations among existing that hold roomID's calendar
// on any night of candidate. Reservations for other rooms and inactive reservations are ignored.
// It performs no I/O.
func FindConflicts(roomID string, candidate daterange.Range, existing []*Reservation) ([]*Reservation, error) {
	if err := candidate.Validate(); err != nil {
		return nil, err
	}

	var conflicts []*Reservation
	for _, r := range existing {
		if r.RoomID != roomID || !r.Status.IsActive() {
			continue
		}
		overlap, err := daterange.Overlaps(r.Range(), candidate)
		if err != nil {
			return nil, err
		}
		if overlap {
			conflicts = append(conflicts, r)
		}
	}
	return conflicts, nil
}

// IsRoomAvailable reports whether candidate can be booked on roomID given the room's
// active reservations. Back-to-back stays sharing a turnover date are allowed.
func IsRoomAvailable(roomID string, candidate daterange.Range, activeForRoom []*Reservation) (bool, error) {
	conflicts, err := FindConflicts(roomID, candidate, activeForRoom)
	if err != nil {
		return false, err
	}
	return len(conflicts) == 0, nil
}
