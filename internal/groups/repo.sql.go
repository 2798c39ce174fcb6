package groups

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lumenpress/lumen/internal/shared"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const uniqueViolation = "23505"

func mapWriteErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return &shared.ValidationError{Field: "name", Message: "a group with this name already exists"}
	}
	return err
}

// Insert stores a new group.
func (r *Repository) Insert(ctx context.Context, group Group) (Group, error) {
	err := r.pool.QueryRow(ctx, `INSERT INTO groups (name) VALUES ($1)
RETURNING id, created_at, updated_at`, group.Name).
		Scan(&group.ID, &group.CreatedAt, &group.UpdatedAt)
	if err != nil {
		return Group{}, mapWriteErr(err)
	}
	return group, nil
}

// Get fetches a group by id.
func (r *Repository) Get(ctx context.Context, id int64) (Group, error) {
	var group Group
	err := r.pool.QueryRow(ctx, `SELECT id, name, created_at, updated_at FROM groups WHERE id = $1`, id).
		Scan(&group.ID, &group.Name, &group.CreatedAt, &group.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Group{}, &shared.NotFound{Kind: "group", ID: strconv.FormatInt(id, 10)}
		}
		return Group{}, err
	}
	return group, nil
}

// Update renames a group.
func (r *Repository) Update(ctx context.Context, group Group) (Group, error) {
	err := r.pool.QueryRow(ctx, `UPDATE groups SET name = $2, updated_at = NOW()
WHERE id = $1
RETURNING created_at, updated_at`, group.ID, group.Name).
		Scan(&group.CreatedAt, &group.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Group{}, &shared.NotFound{Kind: "group", ID: strconv.FormatInt(group.ID, 10)}
		}
		return Group{}, mapWriteErr(err)
	}
	return group, nil
}

// Delete removes a group by id.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM groups WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return &shared.NotFound{Kind: "group", ID: strconv.FormatInt(id, 10)}
	}
	return nil
}

// List returns all groups ordered by name.
func (r *Repository) List(ctx context.Context) ([]Group, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, created_at, updated_at FROM groups ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []Group
	for rows.Next() {
		var group Group
		if err := rows.Scan(&group.ID, &group.Name, &group.CreatedAt, &group.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, group)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

var _ RepositoryPort = (*Repository)(nil)
