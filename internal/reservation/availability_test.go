package reservation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/lodging-reservation-backend/internal/daterange"
)

func jan(day int) time.Time {
	return time.Date(2024, time.January, day, 0, 0, 0, 0, time.UTC)
}

func stay(in, out int) daterange.Range {
	return daterange.Range{CheckIn: jan(in), CheckOut: jan(out)}
}

func TestIsRoomAvailable(t *testing.T) {
	existing := []*Reservation{
		{ID: "a", RoomID: "R1", CheckInDate: jan(15), CheckOutDate: jan(20), Status: StatusConfirmed},
	}

	tests := []struct {
		name      string
		candidate daterange.Range
		want      bool
	}{
		{"overlapping tail", stay(18, 22), false},
		{"overlapping head", stay(10, 16), false},
		{"enclosing", stay(14, 21), false},
		{"enclosed", stay(16, 17), false},
		{"identical", stay(15, 20), false},
		{"check-in on turnover day", stay(20, 25), true},
		{"check-out on turnover day", stay(10, 15), true},
		{"disjoint", stay(1, 5), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := IsRoomAvailable("R1", tt.candidate, existing)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestIsRoomAvailableEmptyCalendar(t *testing.T) {
	ok, err := IsRoomAvailable("R1", stay(1, 2), nil)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsRoomAvailableIgnoresInactiveAndOtherRooms(t *testing.T) {
	existing := []*Reservation{
		{ID: "a", RoomID: "R1", CheckInDate: jan(15), CheckOutDate: jan(20), Status: StatusCancelled},
		{ID: "b", RoomID: "R1", CheckInDate: jan(15), CheckOutDate: jan(20), Status: StatusCheckedOut},
		{ID: "c", RoomID: "R2", CheckInDate: jan(15), CheckOutDate: jan(20), Status: StatusPending},
	}
	ok, err := IsRoomAvailable("R1", stay(16, 18), existing)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsRoomAvailableInvalidCandidate(t *testing.T) {
	_, err := IsRoomAvailable("R1", stay(20, 20), nil)
	assert.ErrorIs(t, err, daterange.ErrInvalidDateRange)

	_, err = IsRoomAvailable("R1", stay(20, 15), nil)
	assert.ErrorIs(t, err, daterange.ErrInvalidDateRange)
}

func TestFindConflicts(t *testing.T) {
	existing := []*Reservation{
		{ID: "a", RoomID: "R1", CheckInDate: jan(1), CheckOutDate: jan(5), Status: StatusPending},
		{ID: "b", RoomID: "R1", CheckInDate: jan(5), CheckOutDate: jan(9), Status: StatusCheckedIn},
		{ID: "c", RoomID: "R1", CheckInDate: jan(9), CheckOutDate: jan(12), Status: StatusConfirmed},
	}
	conflicts, err := FindConflicts("R1", stay(4, 9), existing)
	require.NoError(t, err)
	require.Len(t, conflicts, 2)
	assert.Equal(t, "a", conflicts[0].ID)
	assert.Equal(t, "b", conflicts[1].ID)
}
