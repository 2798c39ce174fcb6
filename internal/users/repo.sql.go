package users

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

func mapInsertErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return &shared.ValidationError{Field: "username", Message: "username or email already taken"}
	}
	return err
}

// Insert stores a new account and its group assignment in one transaction.
func (r *Repository) Insert(ctx context.Context, user User) (User, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return User{}, err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `INSERT INTO users (username, email, password_hash)
VALUES ($1, $2, $3)
RETURNING id, created_at, updated_at`, user.Username, user.Email, user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return User{}, mapInsertErr(err)
	}
	if err := replaceGroups(ctx, tx, user.ID, user.Groups); err != nil {
		return User{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return User{}, err
	}
	return user, nil
}

// Get fetches an account with its group names.
func (r *Repository) Get(ctx context.Context, id int64) (User, error) {
	var user User
	err := r.pool.QueryRow(ctx, `SELECT id, username, email, password_hash, created_at, updated_at
FROM users WHERE id = $1`, id).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, &shared.NotFound{Kind: "user", ID: strconv.FormatInt(id, 10)}
		}
		return User{}, err
	}
	user.Groups, err = r.groupNames(ctx, id)
	if err != nil {
		return User{}, err
	}
	return user, nil
}

// Update persists account fields and rewrites the group assignment.
func (r *Repository) Update(ctx context.Context, user User) (User, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return User{}, err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `UPDATE users
SET username = $2, email = $3, password_hash = $4, updated_at = NOW()
WHERE id = $1
RETURNING created_at, updated_at`, user.ID, user.Username, user.Email, user.PasswordHash).
		Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, &shared.NotFound{Kind: "user", ID: strconv.FormatInt(user.ID, 10)}
		}
		return User{}, mapInsertErr(err)
	}
	if err := replaceGroups(ctx, tx, user.ID, user.Groups); err != nil {
		return User{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return User{}, err
	}
	return user, nil
}

// Delete removes an account. Group links go with it via ON DELETE CASCADE.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return &shared.NotFound{Kind: "user", ID: strconv.FormatInt(id, 10)}
	}
	return nil
}

// List returns all accounts with their group names.
func (r *Repository) List(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, username, email, password_hash, created_at, updated_at
FROM users ORDER BY username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []User
	for rows.Next() {
		var user User
		if err := rows.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range result {
		result[i].Groups, err = r.groupNames(ctx, result[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (r *Repository) groupNames(ctx context.Context, userID int64) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT g.name FROM groups g
JOIN user_groups ug ON ug.group_id = g.id
WHERE ug.user_id = $1 ORDER BY g.name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// replaceGroups rewrites user_groups for the user. Every requested name
// must resolve to an existing group row.
func replaceGroups(ctx context.Context, tx pgx.Tx, userID int64, names []string) error {
	if _, err := tx.Exec(ctx, `DELETE FROM user_groups WHERE user_id = $1`, userID); err != nil {
		return err
	}
	if len(names) == 0 {
		return nil
	}
	tag, err := tx.Exec(ctx, `INSERT INTO user_groups (user_id, group_id)
SELECT $1, id FROM groups WHERE lower(name) = ANY($2)`, userID, names)
	if err != nil {
		return err
	}
	if tag.RowsAffected() != int64(len(names)) {
		return &shared.ValidationError{Field: "groups", Message: "one or more groups do not exist"}
	}
	return nil
}

var _ RepositoryPort = (*Repository)(nil)
