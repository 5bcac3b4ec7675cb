package reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/lodging-reservation-backend/internal/db"
	"github.com/nekogravitycat/lodging-reservation-backend/internal/room"
)

type Repository interface {
	Create(ctx context.Context, r *Reservation) error
	GetByID(ctx context.Context, id string) (*Reservation, error)
	// GetForUpdate reads the reservation and locks its row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id string) (*Reservation, error)
	// FindActiveByRoom returns the PENDING, CONFIRMED and CHECKED_IN reservations of a room.
	FindActiveByRoom(ctx context.Context, roomID string) ([]*Reservation, error)
	// HasCheckedIn reports whether any reservation of the room is CHECKED_IN.
	HasCheckedIn(ctx context.Context, roomID string) (bool, error)
	UpdateStatus(ctx context.Context, id string, status Status) (*Reservation, error)
	List(ctx context.Context, filter Filter) ([]*Reservation, int, error)
	ListAll(ctx context.Context) ([]*Reservation, error)
}

// Stores groups the repositories that share one transaction.
type Stores struct {
	Reservations Repository
	Rooms        room.Repository
}

// TxManager runs a unit of work against transaction-scoped stores.
// Every write made through the stores is committed together or not at all.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, s Stores) error) error
	// WithinSnapshot runs read-only work against one consistent point in time.
	WithinSnapshot(ctx context.Context, fn func(ctx context.Context, s Stores) error) error
}

type pgxTxManager struct {
	pool *pgxpool.Pool
}

func NewPgxTxManager(pool *pgxpool.Pool) TxManager {
	return &pgxTxManager{pool: pool}
}

func (m *pgxTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context, s Stores) error) error {
	return db.InTx(ctx, m.pool, func(tx pgx.Tx) error {
		return fn(ctx, Stores{
			Reservations: NewPgxRepository(tx),
			Rooms:        room.NewPgxRepository(tx),
		})
	})
}

func (m *pgxTxManager) WithinSnapshot(ctx context.Context, fn func(ctx context.Context, s Stores) error) error {
	return db.InSnapshot(ctx, m.pool, func(tx pgx.Tx) error {
		return fn(ctx, Stores{
			Reservations: NewPgxRepository(tx),
			Rooms:        room.NewPgxRepository(tx),
		})
	})
}

type pgxRepository struct {
	db db.Querier
}

// NewPgxRepository creates a Repository backed by a pool or a transaction.
func NewPgxRepository(q db.Querier) Repository {
	return &pgxRepository{db: q}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var reservationColumns = []string{
	"r.id", "r.user_id", "u.email", "r.room_id", "rm.room_number",
	"r.check_in_date", "r.check_out_date", "r.status::text", "r.created_at", "r.updated_at",
}

func selectReservations(columns ...string) squirrel.SelectBuilder {
	return psql.Select(columns...).
		From("public.reservations r").
		Join("public.users u ON u.id = r.user_id").
		Join("public.rooms rm ON rm.id = r.room_id")
}

func scanReservation(row pgx.Row, extra ...any) (*Reservation, error) {
	var r Reservation
	dest := []any{
		&r.ID, &r.UserID, &r.UserEmail, &r.RoomID, &r.RoomNumber,
		&r.CheckInDate, &r.CheckOutDate, &r.Status, &r.CreatedAt, &r.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &r, nil
}

func collect(rows pgx.Rows) ([]*Reservation, error) {
	defer rows.Close()

	var out []*Reservation
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reservation failed: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *pgxRepository) Create(ctx context.Context, res *Reservation) error {
	query, args, err := psql.Insert("public.reservations").
		Columns("user_id", "room_id", "check_in_date", "check_out_date", "status").
		Values(res.UserID, res.RoomID, res.CheckInDate, res.CheckOutDate, string(res.Status)).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create reservation query failed: %w", err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt); err != nil {
		switch {
		case db.IsPgError(err, pgerrcode.ExclusionViolation, pgerrcode.SerializationFailure):
			return ErrRoomNotAvailable
		case db.IsPgError(err, pgerrcode.CheckViolation):
			return ErrInvalidInput.With("check-out date must be after check-in date")
		case db.IsPgError(err, pgerrcode.ForeignKeyViolation):
			return ErrInvalidInput.With("unknown user or room")
		}
		return fmt.Errorf("create reservation failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) get(ctx context.Context, id string, forUpdate bool) (*Reservation, error) {
	q := selectReservations(reservationColumns...).Where(squirrel.Eq{"r.id": id})
	if forUpdate {
		q = q.Suffix("FOR UPDATE OF r")
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get reservation query failed: %w", err)
	}

	res, err := scanReservation(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get reservation failed: %w", err)
	}
	return res, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Reservation, error) {
	return r.get(ctx, id, false)
}

func (r *pgxRepository) GetForUpdate(ctx context.Context, id string) (*Reservation, error) {
	return r.get(ctx, id, true)
}

func activeStatuses() []string {
	var out []string
	for _, s := range AllStatuses {
		if s.IsActive() {
			out = append(out, string(s))
		}
	}
	return out
}

func (r *pgxRepository) FindActiveByRoom(ctx context.Context, roomID string) ([]*Reservation, error) {
	query, args, err := selectReservations(reservationColumns...).
		Where(squirrel.Eq{"r.room_id": roomID}).
		Where(squirrel.Eq{"r.status::text": activeStatuses()}).
		OrderBy("r.check_in_date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find active reservations query failed: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find active reservations failed: %w", err)
	}
	out, err := collect(rows)
	if err != nil {
		return nil, fmt.Errorf("find active reservations failed: %w", err)
	}
	return out, nil
}

func (r *pgxRepository) HasCheckedIn(ctx context.Context, roomID string) (bool, error) {
	query, args, err := psql.Select("1").
		From("public.reservations").
		Where(squirrel.Eq{"room_id": roomID, "status": string(StatusCheckedIn)}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build checked-in query failed: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check checked-in reservations failed: %w", err)
	}
	return exists, nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, id string, status Status) (*Reservation, error) {
	query, args, err := psql.Update("public.reservations").
		Set("status", string(status)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update reservation status query failed: %w", err)
	}

	ct, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		if db.IsPgError(err, pgerrcode.ExclusionViolation) {
			return nil, ErrRoomNotAvailable
		}
		return nil, fmt.Errorf("update reservation status failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.get(ctx, id, false)
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Reservation, int, error) {
	query := selectReservations(append(reservationColumns, "count(*) OVER() AS total_count")...)

	if filter.UserID != "" {
		query = query.Where(squirrel.Eq{"r.user_id": filter.UserID})
	}
	if filter.RoomID != "" {
		query = query.Where(squirrel.Eq{"r.room_id": filter.RoomID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"r.status": string(filter.Status)})
	}
	if filter.From != nil {
		query = query.Where(squirrel.Gt{"r.check_out_date": *filter.From})
	}
	if filter.To != nil {
		query = query.Where(squirrel.LtOrEq{"r.check_in_date": *filter.To})
	}

	// Sorting
	orderBy := "r.created_at"
	switch filter.SortBy {
	case "check_in_date", "check_out_date", "created_at", "updated_at":
		orderBy = "r." + filter.SortBy
	}
	orderDir := "DESC"
	if filter.SortOrder == "ASC" {
		orderDir = "ASC"
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
		return nil, 0, fmt.Errorf("build list reservations query failed: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list reservations failed: %w", err)
	}
	defer rows.Close()

	var list []*Reservation
	var total int
	for rows.Next() {
		res, err := scanReservation(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan reservation failed: %w", err)
		}
		list = append(list, res)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list reservations failed: %w", err)
	}

	return list, total, nil
}

func (r *pgxRepository) ListAll(ctx context.Context) ([]*Reservation, error) {
	query, args, err := selectReservations(reservationColumns...).
		OrderBy("r.check_in_date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list all reservations query failed: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list all reservations failed: %w", err)
	}
	out, err := collect(rows)
	if err != nil {
		return nil, fmt.Errorf("list all reservations failed: %w", err)
	}
	return out, nil
}
