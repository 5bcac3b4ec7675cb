package room

import (
	"context"
	"strings"
)

type CreateRequest struct {
	RoomNumber    string
	Type          string
	PricePerNight float64
	Capacity      int
	Amenities     []string
}

// UpdateRequest changes room attributes. Status is not editable here: it is driven by
// reservations and by the maintenance switch.
type UpdateRequest struct {
	RoomNumber    *string
	Type          *string
	PricePerNight *float64
	Capacity      *int
	Amenities     *[]string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Room, error)
	GetByID(ctx context.Context, id string) (*Room, error)
	List(ctx context.Context, filter Filter) ([]*Room, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Room, error)
	SetImage(ctx context.Context, id string, fileID string) error
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Room, error) {
	r := &Room{
		RoomNumber:    strings.TrimSpace(req.RoomNumber),
		Type:          strings.ToUpper(strings.TrimSpace(req.Type)),
		PricePerNight: req.PricePerNight,
		Status:        StatusAvailable,
		Capacity:      req.Capacity,
		Amenities:     cleanAmenities(req.Amenities),
	}
	if err := validate(r); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Room, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Room, int, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, 0, ErrInvalidStatus
	}
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Room, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.RoomNumber != nil {
		r.RoomNumber = strings.TrimSpace(*req.RoomNumber)
	}
	if req.Type != nil {
		r.Type = strings.ToUpper(strings.TrimSpace(*req.Type))
	}
	if req.PricePerNight != nil {
		r.PricePerNight = *req.PricePerNight
	}
	if req.Capacity != nil {
		r.Capacity = *req.Capacity
	}
	if req.Amenities != nil {
		r.Amenities = cleanAmenities(*req.Amenities)
	}

	if err := validate(r); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *service) SetImage(ctx context.Context, id string, fileID string) error {
	return s.repo.SetImage(ctx, id, &fileID)
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func validate(r *Room) error {
	if r.RoomNumber == "" {
		return ErrRoomNumberRequired
	}
	if !isValidType(r.Type) {
		return ErrInvalidType.With("invalid room type %q, expected one of %s", r.Type, strings.Join(ValidRoomTypes, ", "))
	}
	if r.PricePerNight < 0 {
		return ErrInvalidPrice
	}
	if r.Capacity < 1 {
		return ErrInvalidCapacity
	}
	return nil
}

// cleanAmenities trims entries and drops blanks and duplicates, keeping the first occurrence order.
func cleanAmenities(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, a := range in {
		a = strings.TrimSpace(a)
		if a == "" || seen[a] {
			continue
		}
		seen[a] = true
		out = append(out, a)
	}
	return out
}
