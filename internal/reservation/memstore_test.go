package reservation

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/nekogravitycat/lodging-reservation-backend/internal/room"
)

// memStore is an in-memory TxManager. Transactions run one at a time and
// restore a snapshot when the callback fails.
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	rooms        map[string]*room.Room
	reservations map[string]*Reservation
	seq          int

	// failRoomUpdate makes the next room status write fail.
	failRoomUpdate error
}

func newMemStore() *memStore {
	return &memStore{
		rooms:        map[string]*room.Room{},
		reservations: map[string]*Reservation{},
	}
}

func (m *memStore) addRoom(number string, price float64) *room.Room {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	r := &room.Room{
		ID:            fmt.Sprintf("room-%d", m.seq),
		RoomNumber:    number,
		Type:          "DOUBLE",
		PricePerNight: price,
		Status:        room.StatusAvailable,
		Capacity:      2,
		Amenities:     []string{},
	}
	m.rooms[r.ID] = r
	cp := *r
	return &cp
}

func (m *memStore) roomStatus(id string) room.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rooms[id].Status
}

func (m *memStore) setRoomStatus(id string, s room.Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rooms[id].Status = s
}

func (m *memStore) reservationStatus(id string) Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reservations[id].Status
}

func (m *memStore) WithinTx(ctx context.Context, fn func(ctx context.Context, s Stores) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.Lock()
	roomsSnap := make(map[string]room.Room, len(m.rooms))
	for k, v := range m.rooms {
		roomsSnap[k] = *v
	}
	resSnap := make(map[string]Reservation, len(m.reservations))
	for k, v := range m.reservations {
		resSnap[k] = *v
	}
	m.mu.Unlock()

	if err := fn(ctx, Stores{Reservations: memReservations{m}, Rooms: memRooms{m}}); err != nil {
		m.mu.Lock()
		m.rooms = map[string]*room.Room{}
		for k, v := range roomsSnap {
			v := v
			m.rooms[k] = &v
		}
		m.reservations = map[string]*Reservation{}
		for k, v := range resSnap {
			v := v
			m.reservations[k] = &v
		}
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *memStore) WithinSnapshot(ctx context.Context, fn func(ctx context.Context, s Stores) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	return fn(ctx, Stores{Reservations: memReservations{m}, Rooms: memRooms{m}})
}

type memReservations struct{ m *memStore }

func (r memReservations) Create(_ context.Context, res *Reservation) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.seq++
	res.ID = fmt.Sprintf("res-%d", r.m.seq)
	res.CreatedAt = time.Now()
	res.UpdatedAt = res.CreatedAt
	if rm, ok := r.m.rooms[res.RoomID]; ok {
		res.RoomNumber = rm.RoomNumber
	}
	cp := *res
	r.m.reservations[res.ID] = &cp
	return nil
}

func (r memReservations) GetByID(_ context.Context, id string) (*Reservation, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	res, ok := r.m.reservations[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *res
	return &cp, nil
}

func (r memReservations) GetForUpdate(ctx context.Context, id string) (*Reservation, error) {
	return r.GetByID(ctx, id)
}

func (r memReservations) FindActiveByRoom(_ context.Context, roomID string) ([]*Reservation, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*Reservation
	for _, res := range r.m.reservations {
		if res.RoomID == roomID && res.Status.IsActive() {
			cp := *res
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r memReservations) HasCheckedIn(_ context.Context, roomID string) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, res := range r.m.reservations {
		if res.RoomID == roomID && res.Status == StatusCheckedIn {
			return true, nil
		}
	}
	return false, nil
}

func (r memReservations) UpdateStatus(_ context.Context, id string, status Status) (*Reservation, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	res, ok := r.m.reservations[id]
	if !ok {
		return nil, ErrNotFound
	}
	res.Status = status
	res.UpdatedAt = time.Now()
	cp := *res
	return &cp, nil
}

func (r memReservations) List(ctx context.Context, filter Filter) ([]*Reservation, int, error) {
	all, _ := r.ListAll(ctx)
	var out []*Reservation
	for _, res := range all {
		if filter.UserID != "" && res.UserID != filter.UserID {
			continue
		}
		if filter.RoomID != "" && res.RoomID != filter.RoomID {
			continue
		}
		if filter.Status != "" && res.Status != filter.Status {
			continue
		}
		out = append(out, res)
	}
	return out, len(out), nil
}

func (r memReservations) ListAll(_ context.Context) ([]*Reservation, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*Reservation
	for _, res := range r.m.reservations {
		cp := *res
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memRooms struct{ m *memStore }

func (r memRooms) Create(_ context.Context, rm *room.Room) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.seq++
	rm.ID = fmt.Sprintf("room-%d", r.m.seq)
	cp := *rm
	r.m.rooms[rm.ID] = &cp
	return nil
}

func (r memRooms) GetByID(_ context.Context, id string) (*room.Room, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	rm, ok := r.m.rooms[id]
	if !ok {
		return nil, room.ErrNotFound
	}
	cp := *rm
	return &cp, nil
}

func (r memRooms) GetForUpdate(ctx context.Context, id string) (*room.Room, error) {
	return r.GetByID(ctx, id)
}

func (r memRooms) List(ctx context.Context, _ room.Filter) ([]*room.Room, int, error) {
	all, _ := r.ListAll(ctx)
	return all, len(all), nil
}

func (r memRooms) ListAll(_ context.Context) ([]*room.Room, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*room.Room
	for _, rm := range r.m.rooms {
		cp := *rm
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RoomNumber < out[j].RoomNumber })
	return out, nil
}

func (r memRooms) Update(_ context.Context, rm *room.Room) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.rooms[rm.ID]; !ok {
		return room.ErrNotFound
	}
	cp := *rm
	r.m.rooms[rm.ID] = &cp
	return nil
}

func (r memRooms) UpdateStatus(_ context.Context, id string, status room.Status) (*room.Room, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.failRoomUpdate; err != nil {
		r.m.failRoomUpdate = nil
		return nil, err
	}
	rm, ok := r.m.rooms[id]
	if !ok {
		return nil, room.ErrNotFound
	}
	rm.Status = status
	cp := *rm
	return &cp, nil
}

func (r memRooms) SetImage(_ context.Context, id string, fileID *string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	rm, ok := r.m.rooms[id]
	if !ok {
		return room.ErrNotFound
	}
	rm.ImageFileID = fileID
	return nil
}

func (r memRooms) Delete(_ context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.rooms[id]; !ok {
		return room.ErrNotFound
	}
	delete(r.m.rooms, id)
	return nil
}
