package reservation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/lodging-reservation-backend/internal/room"
)

func TestCanTransitionTo(t *testing.T) {
	allowed := map[[2]Status]bool{
		{StatusPending, StatusConfirmed}:    true,
		{StatusPending, StatusCancelled}:    true,
		{StatusConfirmed, StatusCheckedIn}:  true,
		{StatusConfirmed, StatusCancelled}:  true,
		{StatusCheckedIn, StatusCheckedOut}: true,
	}

	for _, from := range AllStatuses {
		for _, to := range AllStatuses {
			want := allowed[[2]Status{from, to}]
			assert.Equal(t, want, from.CanTransitionTo(to, false), "%s -> %s", from, to)
		}
	}
}

func TestCheckedInCancelRequiresAdmin(t *testing.T) {
	assert.False(t, StatusCheckedIn.CanTransitionTo(StatusCancelled, false))
	assert.True(t, StatusCheckedIn.CanTransitionTo(StatusCancelled, true))
	assert.ElementsMatch(t, []Status{StatusCheckedOut}, StatusCheckedIn.Next(false))
	assert.ElementsMatch(t, []Status{StatusCheckedOut, StatusCancelled}, StatusCheckedIn.Next(true))
}

func TestTerminalStatuses(t *testing.T) {
	for _, s := range []Status{StatusCheckedOut, StatusCancelled} {
		assert.True(t, s.IsTerminal(), s)
		assert.False(t, s.IsActive(), s)
		assert.Empty(t, s.Next(true), s)
	}
	for _, s := range []Status{StatusPending, StatusConfirmed, StatusCheckedIn} {
		assert.False(t, s.IsTerminal(), s)
		assert.True(t, s.IsActive(), s)
	}
}

func TestIsRealized(t *testing.T) {
	assert.False(t, StatusPending.IsRealized())
	assert.True(t, StatusConfirmed.IsRealized())
	assert.True(t, StatusCheckedIn.IsRealized())
	assert.True(t, StatusCheckedOut.IsRealized())
	assert.False(t, StatusCancelled.IsRealized())
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("CHECKED_IN")
	require.NoError(t, err)
	assert.Equal(t, StatusCheckedIn, s)

	_, err = ParseStatus("checked_in")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestTransitionError(t *testing.T) {
	var err error = &TransitionError{ReservationID: "r1", From: StatusCancelled, To: StatusConfirmed}

	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
	assert.Contains(t, err.Error(), "CANCELLED")
	assert.Contains(t, err.Error(), "CONFIRMED")

	var te *TransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "r1", te.ReservationID)
}

func TestRoomStatusAfter(t *testing.T) {
	tests := []struct {
		name         string
		from, to     Status
		current      room.Status
		hasCheckedIn bool
		want         room.Status
		write        bool
	}{
		{"check-in occupies", StatusConfirmed, StatusCheckedIn, room.StatusAvailable, false, room.StatusOccupied, true},
		{"check-in overrides maintenance", StatusConfirmed, StatusCheckedIn, room.StatusMaintenance, false, room.StatusOccupied, true},
		{"check-out releases", StatusCheckedIn, StatusCheckedOut, room.StatusOccupied, false, room.StatusAvailable, true},
		{"check-out keeps maintenance", StatusCheckedIn, StatusCheckedOut, room.StatusMaintenance, false, room.StatusMaintenance, false},
		{"check-out with other guest in", StatusCheckedIn, StatusCheckedOut, room.StatusOccupied, true, room.StatusOccupied, false},
		{"admin cancel releases", StatusCheckedIn, StatusCancelled, room.StatusOccupied, false, room.StatusAvailable, true},
		{"confirm leaves room", StatusPending, StatusConfirmed, room.StatusAvailable, false, room.StatusAvailable, false},
		{"pending cancel leaves room", StatusPending, StatusCancelled, room.StatusOccupied, false, room.StatusOccupied, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, write := roomStatusAfter(tt.from, tt.to, tt.current, tt.hasCheckedIn)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.write, write)
		})
	}
}
