package item

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
)

type Repository interface {
	Create(ctx context.Context, it *Item) error
	GetByID(ctx context.Context, id string) (*Item, error)
	Update(ctx context.Context, it *Item) error
	ListByOwner(ctx context.Context, ownerID string, page request.Page) ([]*Item, int, error)
	ExistsByOwner(ctx context.Context, ownerID string) (bool, error)
	Search(ctx context.Context, text string, page request.Page) ([]*Item, int, error)
	ListByRequestIDs(ctx context.Context, requestIDs []string) ([]*Item, error)

	CreateComment(ctx context.Context, cm *Comment) error
	ListCommentsByItems(ctx context.Context, itemIDs []string) ([]*Comment, error)
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var itemColumns = []string{"i.id", "i.name", "i.description", "i.is_available", "i.owner_id", "i.request_id", "i.created_at"}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func scanItem(row pgx.Row, extra ...any) (*Item, error) {
	var it Item
	dest := append([]any{
		&it.ID, &it.Name, &it.Description, &it.Available, &it.OwnerID, &it.RequestID, &it.CreatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *pgxRepository) Create(ctx context.Context, it *Item) error {
	query, args, err := psql.Insert("public.items").
		Columns("name", "description", "is_available", "owner_id", "request_id").
		Values(it.Name, it.Description, it.Available, it.OwnerID, it.RequestID).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create item query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&it.ID, &it.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			if pgErr.ConstraintName == "items_request_id_fkey" {
				return ErrRequestNotFound
			}
			return ErrUserNotFound
		}
		return fmt.Errorf("create item failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Item, error) {
	query, args, err := psql.Select(itemColumns...).
		From("public.items i").
		Where(squirrel.Eq{"i.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get item query failed: %w", err)
	}

	it, err := scanItem(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get item failed: %w", err)
	}
	return it, nil
}

func (r *pgxRepository) Update(ctx context.Context, it *Item) error {
	query, args, err := psql.Update("public.items").
		Set("name", it.Name).
		Set("description", it.Description).
		Set("is_available", it.Available).
		Where(squirrel.Eq{"id": it.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update item query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update item failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// listQuery pages items in creation order and counts the full match set.
func listQuery(where squirrel.Sqlizer, page request.Page) squirrel.SelectBuilder {
	return psql.Select(append(itemColumns, "count(*) OVER() AS total_count")...).
		From("public.items i").
		Where(where).
		OrderBy("i.created_at ASC", "i.id ASC").
		Limit(uint64(page.Limit)).
		Offset(uint64(page.Offset))
}

func (r *pgxRepository) queryPage(ctx context.Context, qb squirrel.SelectBuilder) ([]*Item, int, error) {
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list items query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list items failed: %w", err)
	}
	defer rows.Close()

	var items []*Item
	var total int
	for rows.Next() {
		it, err := scanItem(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan item failed: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate items failed: %w", err)
	}
	return items, total, nil
}

func (r *pgxRepository) ListByOwner(ctx context.Context, ownerID string, page request.Page) ([]*Item, int, error) {
	return r.queryPage(ctx, listQuery(squirrel.Eq{"i.owner_id": ownerID}, page))
}

// ownsAnyQuery reports whether ownerID has at least one item.
func ownsAnyQuery(ownerID string) squirrel.SelectBuilder {
	return psql.Select("1").
		Prefix("SELECT EXISTS (").
		From("public.items").
		Where(squirrel.Eq{"owner_id": ownerID}).
		Suffix(")")
}

func (r *pgxRepository) ExistsByOwner(ctx context.Context, ownerID string) (bool, error) {
	query, args, err := ownsAnyQuery(ownerID).ToSql()
	if err != nil {
		return false, fmt.Errorf("build item owner exists query failed: %w", err)
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check item owner failed: %w", err)
	}
	return exists, nil
}

// searchCondition matches available items whose name or description contains text.
func searchCondition(text string) squirrel.Sqlizer {
	pattern := "%" + escapeLike(text) + "%"
	return squirrel.And{
		squirrel.Eq{"i.is_available": true},
		squirrel.Or{
			squirrel.ILike{"i.name": pattern},
			squirrel.ILike{"i.description": pattern},
		},
	}
}

func (r *pgxRepository) Search(ctx context.Context, text string, page request.Page) ([]*Item, int, error) {
	return r.queryPage(ctx, listQuery(searchCondition(text), page))
}

func (r *pgxRepository) ListByRequestIDs(ctx context.Context, requestIDs []string) ([]*Item, error) {
	if len(requestIDs) == 0 {
		return nil, nil
	}

	query, args, err := psql.Select(itemColumns...).
		From("public.items i").
		Where(squirrel.Eq{"i.request_id": requestIDs}).
		OrderBy("i.created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list items by request query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items by request failed: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item failed: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *pgxRepository) CreateComment(ctx context.Context, cm *Comment) error {
	query, args, err := psql.Insert("public.comments").
		Columns("text", "item_id", "author_id").
		Values(cm.Text, cm.ItemID, cm.AuthorID).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create comment query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&cm.ID, &cm.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return ErrNotFound
		}
		return fmt.Errorf("create comment failed: %w", err)
	}
	return nil
}

// commentsQuery loads the comments of many items in one round trip.
func commentsQuery(itemIDs []string) squirrel.SelectBuilder {
	return psql.Select("c.id", "c.item_id", "c.author_id", "u.name", "c.text", "c.created_at").
		From("public.comments c").
		Join("public.users u ON c.author_id = u.id").
		Where(squirrel.Eq{"c.item_id": itemIDs}).
		OrderBy("c.created_at ASC", "c.id ASC")
}

func (r *pgxRepository) ListCommentsByItems(ctx context.Context, itemIDs []string) ([]*Comment, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}

	query, args, err := commentsQuery(itemIDs).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list comments query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list comments failed: %w", err)
	}
	defer rows.Close()

	var comments []*Comment
	for rows.Next() {
		var cm Comment
		if err := rows.Scan(&cm.ID, &cm.ItemID, &cm.AuthorID, &cm.AuthorName, &cm.Text, &cm.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment failed: %w", err)
		}
		comments = append(comments, &cm)
	}
	return comments, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
