package room

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"

	"github.com/nekogravitycat/lodging-reservation-backend/internal/db"
)

type Repository interface {
	Create(ctx context.Context, r *Room) error
	GetByID(ctx context.Context, id string) (*Room, error)
	// GetForUpdate reads the room and locks its row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id string) (*Room, error)
	List(ctx context.Context, filter Filter) ([]*Room, int, error)
	ListAll(ctx context.Context) ([]*Room, error)
	Update(ctx context.Context, r *Room) error
	UpdateStatus(ctx context.Context, id string, status Status) (*Room, error)
	SetImage(ctx context.Context, id string, fileID *string) error
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	db db.Querier
}

// NewPgxRepository creates a Repository backed by a pool or a transaction.
func NewPgxRepository(q db.Querier) Repository {
	return &pgxRepository{db: q}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var roomColumns = []string{
	"id", "room_number", "type", "price_per_night::float8", "status::text",
	"capacity", "amenities", "image_file_id", "created_at", "updated_at",
}

func scanRoom(row pgx.Row, extra ...any) (*Room, error) {
	var r Room
	dest := []any{
		&r.ID, &r.RoomNumber, &r.Type, &r.PricePerNight, &r.Status,
		&r.Capacity, &r.Amenities, &r.ImageFileID, &r.CreatedAt, &r.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	if r.Amenities == nil {
		r.Amenities = []string{}
	}
	return &r, nil
}

func (r *pgxRepository) Create(ctx context.Context, room *Room) error {
	query, args, err := psql.Insert("public.rooms").
		Columns("room_number", "type", "price_per_night", "status", "capacity", "amenities").
		Values(room.RoomNumber, room.Type, room.PricePerNight, string(room.Status), room.Capacity, room.Amenities).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create room query failed: %w", err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&room.ID, &room.CreatedAt, &room.UpdatedAt); err != nil {
		if db.IsPgError(err, pgerrcode.UniqueViolation) {
			return ErrRoomNumberTaken
		}
		return fmt.Errorf("create room failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) get(ctx context.Context, id string, forUpdate bool) (*Room, error) {
	q := psql.Select(roomColumns...).
		From("public.rooms").
		Where(squirrel.Eq{"id": id})
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get room query failed: %w", err)
	}

	room, err := scanRoom(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get room failed: %w", err)
	}
	return room, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Room, error) {
	return r.get(ctx, id, false)
}

func (r *pgxRepository) GetForUpdate(ctx context.Context, id string) (*Room, error) {
	return r.get(ctx, id, true)
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Room, int, error) {
	query := psql.Select(append(roomColumns, "count(*) OVER() AS total_count")...).
		From("public.rooms")

	if filter.Type != "" {
		query = query.Where(squirrel.Eq{"type": filter.Type})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": string(filter.Status)})
	}
	if filter.MinCapacity > 0 {
		query = query.Where(squirrel.GtOrEq{"capacity": filter.MinCapacity})
	}
	if filter.MaxPrice != nil {
		query = query.Where(squirrel.LtOrEq{"price_per_night": *filter.MaxPrice})
	}

	// Sorting
	orderBy := "room_number"
	switch filter.SortBy {
	case "room_number", "price_per_night", "capacity", "created_at":
		orderBy = filter.SortBy
	}
	orderDir := "ASC"
	if filter.SortOrder == "DESC" {
		orderDir = "DESC"
	}
	query = query.OrderBy(orderBy + " " + orderDir)

	// Pagination
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize
	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list rooms query failed: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list rooms failed: %w", err)
	}
	defer rows.Close()

	var rooms []*Room
	var total int
	for rows.Next() {
		room, err := scanRoom(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan room failed: %w", err)
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list rooms failed: %w", err)
	}

	return rooms, total, nil
}

func (r *pgxRepository) ListAll(ctx context.Context) ([]*Room, error) {
	query, args, err := psql.Select(roomColumns...).
		From("public.rooms").
		OrderBy("room_number ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list all rooms query failed: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list all rooms failed: %w", err)
	}
	defer rows.Close()

	var rooms []*Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("scan room failed: %w", err)
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list all rooms failed: %w", err)
	}
	return rooms, nil
}

func (r *pgxRepository) Update(ctx context.Context, room *Room) error {
	query, args, err := psql.Update("public.rooms").
		Set("room_number", room.RoomNumber).
		Set("type", room.Type).
		Set("price_per_night", room.PricePerNight).
		Set("capacity", room.Capacity).
		Set("amenities", room.Amenities).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": room.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update room query failed: %w", err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&room.UpdatedAt); err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return ErrNotFound
		case db.IsPgError(err, pgerrcode.UniqueViolation):
			return ErrRoomNumberTaken
		}
		return fmt.Errorf("update room failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, id string, status Status) (*Room, error) {
	query, args, err := psql.Update("public.rooms").
		Set("status", string(status)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(roomColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update room status query failed: %w", err)
	}

	room, err := scanRoom(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update room status failed: %w", err)
	}
	return room, nil
}

func (r *pgxRepository) SetImage(ctx context.Context, id string, fileID *string) error {
	query, args, err := psql.Update("public.rooms").
		Set("image_file_id", fileID).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build set room image query failed: %w", err)
	}

	ct, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("set room image failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	query, args, err := psql.Delete("public.rooms").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete room query failed: %w", err)
	}

	ct, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		if db.IsPgError(err, pgerrcode.ForeignKeyViolation) {
			return ErrRoomInUse
		}
		return fmt.Errorf("delete room failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
