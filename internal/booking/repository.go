package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/shareit-backend/internal/item"
)

type Repository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	// UpdateStatus writes b.Status without checking the previous value.
	UpdateStatus(ctx context.Context, b *Booking) error

	ListByBooker(ctx context.Context, bookerID string, q ListQuery) ([]*Booking, int, error)
	// ListByOwner lists bookings of every item owned by ownerID.
	ListByOwner(ctx context.Context, ownerID string, q ListQuery) ([]*Booking, int, error)

	// FindLastEnded, FindCurrent and FindNext return at most one summary per item, keyed by item id.
	FindLastEnded(ctx context.Context, itemIDs []string, now time.Time, statuses []Status) (map[string]*item.BookingSummary, error)
	FindCurrent(ctx context.Context, itemIDs []string, now time.Time, statuses []Status) (map[string]*item.BookingSummary, error)
	FindNext(ctx context.Context, itemIDs []string, now time.Time, statuses []Status) (map[string]*item.BookingSummary, error)

	ExistsFinished(ctx context.Context, bookerID, itemID string, now time.Time) (bool, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func scanBooking(row pgx.Row, extra ...any) (*Booking, error) {
	var b Booking
	dest := append([]any{
		&b.ID, &b.ItemID, &b.ItemName, &b.ItemOwnerID, &b.BookerID, &b.BookerName,
		&b.StartTime, &b.EndTime, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	query, args, err := psql.Insert("public.bookings").
		Columns("item_id", "booker_id", "start_time", "end_time", "status").
		Values(b.ItemID, b.BookerID, b.StartTime, b.EndTime, string(b.Status)).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			if pgErr.ConstraintName == "bookings_item_id_fkey" {
				return ErrItemNotFound
			}
			return ErrUserNotFound
		}
		return fmt.Errorf("create booking failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	query, args, err := getByIDQuery(id).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	b, err := scanBooking(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, b *Booking) error {
	query, args, err := psql.Update("public.bookings").
		Set("status", string(b.Status)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": b.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update booking status query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("update booking status failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) ListByBooker(ctx context.Context, bookerID string, q ListQuery) ([]*Booking, int, error) {
	return r.list(ctx, squirrel.Eq{"b.booker_id": bookerID}, q)
}

func (r *pgxRepository) ListByOwner(ctx context.Context, ownerID string, q ListQuery) ([]*Booking, int, error) {
	return r.list(ctx, squirrel.Eq{"i.owner_id": ownerID}, q)
}

func (r *pgxRepository) list(ctx context.Context, owner squirrel.Sqlizer, q ListQuery) ([]*Booking, int, error) {
	qb, err := listQuery(owner, q)
	if err != nil {
		return nil, 0, err
	}
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	var total int
	for rows.Next() {
		b, err := scanBooking(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate bookings failed: %w", err)
	}
	return bookings, total, nil
}

func (r *pgxRepository) FindLastEnded(ctx context.Context, itemIDs []string, now time.Time, statuses []Status) (map[string]*item.BookingSummary, error) {
	return r.summaries(ctx, lastEndedQuery(itemIDs, now, statuses))
}

func (r *pgxRepository) FindCurrent(ctx context.Context, itemIDs []string, now time.Time, statuses []Status) (map[string]*item.BookingSummary, error) {
	return r.summaries(ctx, currentQuery(itemIDs, now, statuses))
}

func (r *pgxRepository) FindNext(ctx context.Context, itemIDs []string, now time.Time, statuses []Status) (map[string]*item.BookingSummary, error) {
	return r.summaries(ctx, nextQuery(itemIDs, now, statuses))
}

func (r *pgxRepository) summaries(ctx context.Context, qb squirrel.SelectBuilder) (map[string]*item.BookingSummary, error) {
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build booking summary query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query booking summaries failed: %w", err)
	}
	defer rows.Close()

	result := make(map[string]*item.BookingSummary)
	for rows.Next() {
		var itemID string
		var s item.BookingSummary
		if err := rows.Scan(&itemID, &s.ID, &s.BookerID); err != nil {
			return nil, fmt.Errorf("scan booking summary failed: %w", err)
		}
		result[itemID] = &s
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booking summaries failed: %w", err)
	}
	return result, nil
}

func (r *pgxRepository) ExistsFinished(ctx context.Context, bookerID, itemID string, now time.Time) (bool, error) {
	query, args, err := existsFinishedQuery(bookerID, itemID, now).ToSql()
	if err != nil {
		return false, fmt.Errorf("build finished booking query failed: %w", err)
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check finished booking failed: %w", err)
	}
	return exists, nil
}
