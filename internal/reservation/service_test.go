package reservation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/lodging-reservation-backend/internal/daterange"
	"github.com/nekogravitycat/lodging-reservation-backend/internal/pkg/clock"
	"github.com/nekogravitycat/lodging-reservation-backend/internal/room"
)

func june(day int) time.Time {
	return time.Date(2024, time.June, day, 0, 0, 0, 0, time.UTC)
}

func newTestService(t *testing.T) (Service, *memStore, *room.Room) {
	t.Helper()
	store := newMemStore()
	rm := store.addRoom("101", 100)
	now := clock.Fixed(time.Date(2024, time.June, 1, 9, 30, 0, 0, time.UTC))
	svc := NewService(store, memReservations{store}, memRooms{store}, now)
	return svc, store, rm
}

func book(t *testing.T, svc Service, userID, roomID string, in, out int) *Reservation {
	t.Helper()
	res, err := svc.Create(context.Background(), CreateRequest{
		UserID: userID, RoomID: roomID, CheckIn: june(in), CheckOut: june(out),
	})
	require.NoError(t, err)
	return res
}

func TestReservationLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, store, rm := newTestService(t)

	res := book(t, svc, "u1", rm.ID, 15, 20)
	assert.Equal(t, StatusPending, res.Status)
	assert.Equal(t, "101", res.RoomNumber)
	assert.NotEmpty(t, res.ID)

	_, err := svc.Create(ctx, CreateRequest{UserID: "u2", RoomID: rm.ID, CheckIn: june(18), CheckOut: june(22)})
	require.ErrorIs(t, err, ErrRoomNotAvailable)
	assert.Contains(t, err.Error(), "101")

	res, err = svc.Confirm(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, res.Status)
	assert.Equal(t, room.StatusAvailable, store.roomStatus(rm.ID))

	res, err = svc.CheckIn(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCheckedIn, res.Status)
	assert.Equal(t, room.StatusOccupied, store.roomStatus(rm.ID))

	res, err = svc.CheckOut(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCheckedOut, res.Status)
	assert.Equal(t, room.StatusAvailable, store.roomStatus(rm.ID))

	next := book(t, svc, "u2", rm.ID, 20, 25)
	assert.Equal(t, StatusPending, next.Status)
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, rm := newTestService(t)

	tests := []struct {
		name    string
		req     CreateRequest
		wantErr error
	}{
		{"same day", CreateRequest{UserID: "u1", RoomID: rm.ID, CheckIn: june(10), CheckOut: june(10)}, daterange.ErrInvalidDateRange},
		{"reversed", CreateRequest{UserID: "u1", RoomID: rm.ID, CheckIn: june(12), CheckOut: june(10)}, daterange.ErrInvalidDateRange},
		{"in the past", CreateRequest{UserID: "u1", RoomID: rm.ID, CheckIn: time.Date(2024, time.May, 30, 0, 0, 0, 0, time.UTC), CheckOut: june(3)}, daterange.ErrPastCheckInDate},
		{"unknown room", CreateRequest{UserID: "u1", RoomID: "nope", CheckIn: june(10), CheckOut: june(12)}, room.ErrNotFound},
		{"missing user", CreateRequest{RoomID: rm.ID, CheckIn: june(10), CheckOut: june(12)}, ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateAllowsToday(t *testing.T) {
	svc, _, rm := newTestService(t)
	res := book(t, svc, "u1", rm.ID, 1, 2)
	assert.Equal(t, june(1), res.CheckInDate)
}

func TestCreateNormalizesDates(t *testing.T) {
	svc, _, rm := newTestService(t)
	res, err := svc.Create(context.Background(), CreateRequest{
		UserID:   "u1",
		RoomID:   rm.ID,
		CheckIn:  time.Date(2024, time.June, 10, 15, 0, 0, 0, time.UTC),
		CheckOut: time.Date(2024, time.June, 12, 11, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, june(10), res.CheckInDate)
	assert.Equal(t, june(12), res.CheckOutDate)
}

func TestInvalidTransitions(t *testing.T) {
	ctx := context.Background()
	svc, _, rm := newTestService(t)

	res := book(t, svc, "u1", rm.ID, 10, 12)

	_, err := svc.CheckIn(ctx, res.ID)
	require.ErrorIs(t, err, ErrInvalidStatusTransition)
	var te *TransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, StatusPending, te.From)
	assert.Equal(t, StatusCheckedIn, te.To)

	_, err = svc.CheckOut(ctx, res.ID)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)

	_, err = svc.Cancel(ctx, res.ID, "u1", false)
	require.NoError(t, err)

	_, err = svc.Confirm(ctx, res.ID)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
	_, err = svc.Cancel(ctx, res.ID, "u1", false)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
}

func TestTransitionUnknownReservation(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Confirm(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCancelOwnership(t *testing.T) {
	ctx := context.Background()
	svc, store, rm := newTestService(t)

	res := book(t, svc, "owner", rm.ID, 10, 12)

	_, err := svc.Cancel(ctx, res.ID, "stranger", false)
	require.ErrorIs(t, err, ErrUnauthorizedAccess)
	assert.Equal(t, StatusPending, store.reservationStatus(res.ID))

	cancelled, err := svc.Cancel(ctx, res.ID, "admin", true)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)

	// Ownership is checked before the status.
	_, err = svc.Cancel(ctx, res.ID, "stranger", false)
	assert.ErrorIs(t, err, ErrUnauthorizedAccess)
}

func TestCancelFreesCalendar(t *testing.T) {
	ctx := context.Background()
	svc, _, rm := newTestService(t)

	res := book(t, svc, "u1", rm.ID, 10, 15)
	_, err := svc.Cancel(ctx, res.ID, "u1", false)
	require.NoError(t, err)

	book(t, svc, "u2", rm.ID, 11, 14)
}

func TestCancelCheckedIn(t *testing.T) {
	ctx := context.Background()
	svc, store, rm := newTestService(t)

	res := book(t, svc, "u1", rm.ID, 10, 15)
	_, err := svc.Confirm(ctx, res.ID)
	require.NoError(t, err)
	_, err = svc.CheckIn(ctx, res.ID)
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, res.ID, "u1", false)
	require.ErrorIs(t, err, ErrInvalidStatusTransition)
	assert.Equal(t, room.StatusOccupied, store.roomStatus(rm.ID))

	cancelled, err := svc.Cancel(ctx, res.ID, "staff", true)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)
	assert.Equal(t, room.StatusAvailable, store.roomStatus(rm.ID))
}

func TestCheckOutKeepsMaintenance(t *testing.T) {
	ctx := context.Background()
	svc, store, rm := newTestService(t)

	res := book(t, svc, "u1", rm.ID, 10, 15)
	_, err := svc.Confirm(ctx, res.ID)
	require.NoError(t, err)
	_, err = svc.CheckIn(ctx, res.ID)
	require.NoError(t, err)

	_, err = svc.SetRoomMaintenance(ctx, rm.ID, true)
	require.NoError(t, err)

	_, err = svc.CheckOut(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, room.StatusMaintenance, store.roomStatus(rm.ID))

	updated, err := svc.SetRoomMaintenance(ctx, rm.ID, false)
	require.NoError(t, err)
	assert.Equal(t, room.StatusAvailable, updated.Status)
}

func TestLeavingMaintenanceRestoresOccupied(t *testing.T) {
	ctx := context.Background()
	svc, store, rm := newTestService(t)

	res := book(t, svc, "u1", rm.ID, 10, 15)
	_, err := svc.Confirm(ctx, res.ID)
	require.NoError(t, err)
	_, err = svc.CheckIn(ctx, res.ID)
	require.NoError(t, err)

	store.setRoomStatus(rm.ID, room.StatusMaintenance)

	updated, err := svc.SetRoomMaintenance(ctx, rm.ID, false)
	require.NoError(t, err)
	assert.Equal(t, room.StatusOccupied, updated.Status)
}

func TestTransitionRollsBackOnRoomFailure(t *testing.T) {
	ctx := context.Background()
	svc, store, rm := newTestService(t)

	res := book(t, svc, "u1", rm.ID, 10, 15)
	_, err := svc.Confirm(ctx, res.ID)
	require.NoError(t, err)

	store.failRoomUpdate = errors.New("disk full")
	_, err = svc.CheckIn(ctx, res.ID)
	require.Error(t, err)

	assert.Equal(t, StatusConfirmed, store.reservationStatus(res.ID))
	assert.Equal(t, room.StatusAvailable, store.roomStatus(rm.ID))
}

func TestConcurrentCreateSingleWinner(t *testing.T) {
	ctx := context.Background()
	svc, _, rm := newTestService(t)

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Create(ctx, CreateRequest{UserID: "u", RoomID: rm.ID, CheckIn: june(10), CheckOut: june(12)})
		}(i)
	}
	wg.Wait()

	won := 0
	for _, err := range errs {
		if err == nil {
			won++
			continue
		}
		assert.ErrorIs(t, err, ErrRoomNotAvailable)
	}
	assert.Equal(t, 1, won)
}

func TestCheckAvailability(t *testing.T) {
	ctx := context.Background()
	svc, _, rm := newTestService(t)
	book(t, svc, "u1", rm.ID, 15, 20)

	ok, err := svc.CheckAvailability(ctx, rm.ID, daterange.Range{CheckIn: june(18), CheckOut: june(22)})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.CheckAvailability(ctx, rm.ID, daterange.Range{CheckIn: june(20), CheckOut: june(22)})
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = svc.CheckAvailability(ctx, "missing", daterange.Range{CheckIn: june(20), CheckOut: june(22)})
	assert.ErrorIs(t, err, room.ErrNotFound)

	_, err = svc.CheckAvailability(ctx, rm.ID, daterange.Range{CheckIn: june(22), CheckOut: june(20)})
	assert.ErrorIs(t, err, daterange.ErrInvalidDateRange)
}

func TestListRejectsUnknownStatus(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, _, err := svc.List(context.Background(), Filter{Status: "LOST"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
