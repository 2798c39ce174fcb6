package auth

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
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

// FindByUsername fetches a user by username.
func (r *Repository) FindByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	err := r.pool.QueryRow(ctx, `SELECT id, username, email, password_hash, created_at, updated_at
FROM users WHERE username = $1`, username).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &shared.NotFound{Kind: "user", ID: username}
		}
		return nil, err
	}
	return &user, nil
}

// FindWithRoles fetches a user together with its group names.
func (r *Repository) FindWithRoles(ctx context.Context, userID int64) (*User, []string, error) {
	var user User
	err := r.pool.QueryRow(ctx, `SELECT id, username, email, password_hash, created_at, updated_at
FROM users WHERE id = $1`, userID).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, &shared.NotFound{Kind: "user", ID: strconv.FormatInt(userID, 10)}
		}
		return nil, nil, err
	}

	rows, err := r.pool.Query(ctx, `SELECT g.name FROM groups g
JOIN user_groups ug ON ug.group_id = g.id
WHERE ug.user_id = $1 ORDER BY g.name`, userID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()
	var roles []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, nil, err
		}
		roles = append(roles, name)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return &user, roles, nil
}

var _ RepositoryPort = (*Repository)(nil)
