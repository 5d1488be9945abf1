package itemrequest

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
)

type Repository interface {
	Create(ctx context.Context, r *Request) error
	GetByID(ctx context.Context, id string) (*Request, error)
	Exists(ctx context.Context, id string) (bool, error)
	ListByRequester(ctx context.Context, requesterID string) ([]*Request, error)
	ListExcludingRequester(ctx context.Context, requesterID string, page request.Page) ([]*Request, int, error)
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var requestColumns = []string{"id", "description", "requester_id", "created_at"}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, req *Request) error {
	query, args, err := psql.Insert("public.item_requests").
		Columns("description", "requester_id").
		Values(req.Description, req.RequesterID).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create item request query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&req.ID, &req.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return ErrUserNotFound
		}
		return fmt.Errorf("create item request failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Request, error) {
	query, args, err := psql.Select(requestColumns...).
		From("public.item_requests").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get item request query failed: %w", err)
	}

	var req Request
	err = r.pool.QueryRow(ctx, query, args...).Scan(&req.ID, &req.Description, &req.RequesterID, &req.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get item request failed: %w", err)
	}
	return &req, nil
}

func (r *pgxRepository) Exists(ctx context.Context, id string) (bool, error) {
	query, args, err := psql.Select("1").
		Prefix("SELECT EXISTS (").
		From("public.item_requests").
		Where(squirrel.Eq{"id": id}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build item request exists query failed: %w", err)
	}

	var ok bool
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&ok); err != nil {
		return false, fmt.Errorf("check item request failed: %w", err)
	}
	return ok, nil
}

// byRequesterQuery lists one user's requests, newest first.
func byRequesterQuery(requesterID string) squirrel.SelectBuilder {
	return psql.Select(requestColumns...).
		From("public.item_requests").
		Where(squirrel.Eq{"requester_id": requesterID}).
		OrderBy("created_at DESC", "id DESC")
}

// othersQuery pages everyone else's requests, newest first.
func othersQuery(requesterID string, page request.Page) squirrel.SelectBuilder {
	return psql.Select(append(requestColumns, "count(*) OVER() AS total_count")...).
		From("public.item_requests").
		Where(squirrel.NotEq{"requester_id": requesterID}).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(page.Limit)).
		Offset(uint64(page.Offset))
}

func (r *pgxRepository) ListByRequester(ctx context.Context, requesterID string) ([]*Request, error) {
	list, _, err := r.query(ctx, byRequesterQuery(requesterID), false)
	return list, err
}

func (r *pgxRepository) ListExcludingRequester(ctx context.Context, requesterID string, page request.Page) ([]*Request, int, error) {
	return r.query(ctx, othersQuery(requesterID, page), true)
}

func (r *pgxRepository) query(ctx context.Context, qb squirrel.SelectBuilder, counted bool) ([]*Request, int, error) {
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list item requests query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list item requests failed: %w", err)
	}
	defer rows.Close()

	var list []*Request
	var total int
	for rows.Next() {
		var req Request
		dest := []any{&req.ID, &req.Description, &req.RequesterID, &req.CreatedAt}
		if counted {
			dest = append(dest, &total)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, 0, fmt.Errorf("scan item request failed: %w", err)
		}
		list = append(list, &req)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate item requests failed: %w", err)
	}
	if !counted {
		total = len(list)
	}
	return list, total, nil
}
