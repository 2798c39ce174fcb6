package themes

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lumenpress/lumen/internal/platform/db"
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

const themeColumns = `id, name, version, is_active, options, created_at, updated_at`

// rowQueryer is satisfied by both *pgxpool.Pool and pgx.Tx.
type rowQueryer interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func scanTheme(row pgx.Row) (Theme, error) {
	var theme Theme
	if err := row.Scan(&theme.ID, &theme.Name, &theme.Version, &theme.IsActive, &theme.Options, &theme.CreatedAt, &theme.UpdatedAt); err != nil {
		return Theme{}, err
	}
	return theme, nil
}

func getTheme(ctx context.Context, q rowQueryer, id uuid.UUID) (Theme, error) {
	row := q.QueryRow(ctx, `SELECT `+themeColumns+` FROM themes WHERE id = $1`, id)
	theme, err := scanTheme(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Theme{}, &shared.NotFound{Kind: "theme", ID: id.String()}
		}
		return Theme{}, err
	}
	return theme, nil
}

// Insert stores a new theme.
func (r *Repository) Insert(ctx context.Context, theme Theme) (Theme, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO themes (id, name, version, is_active, options)
VALUES ($1, $2, $3, $4, $5)
RETURNING `+themeColumns, theme.ID, theme.Name, theme.Version, theme.IsActive, theme.Options)
	return scanTheme(row)
}

// Get fetches a theme by id.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (Theme, error) {
	return getTheme(ctx, r.pool, id)
}

// Update persists changed fields of a theme.
func (r *Repository) Update(ctx context.Context, theme Theme) (Theme, error) {
	row := r.pool.QueryRow(ctx, `UPDATE themes
SET name = $2, version = $3, options = $4, updated_at = NOW()
WHERE id = $1
RETURNING `+themeColumns, theme.ID, theme.Name, theme.Version, theme.Options)
	updated, err := scanTheme(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Theme{}, &shared.NotFound{Kind: "theme", ID: theme.ID.String()}
		}
		return Theme{}, err
	}
	return updated, nil
}

// Delete removes a theme by id.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM themes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return &shared.NotFound{Kind: "theme", ID: id.String()}
	}
	return nil
}

// List returns all themes, newest first.
func (r *Repository) List(ctx context.Context) ([]Theme, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+themeColumns+` FROM themes ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []Theme
	for rows.Next() {
		theme, err := scanTheme(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, theme)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// WithTx runs fn inside a serializable transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxPort) error) error {
	return db.WithSerializableTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{tx: tx})
	})
}

type txRepository struct {
	tx pgx.Tx
}

func (t *txRepository) Get(ctx context.Context, id uuid.UUID) (Theme, error) {
	return getTheme(ctx, t.tx, id)
}

func (t *txRepository) DeactivateAll(ctx context.Context) error {
	_, err := t.tx.Exec(ctx, `UPDATE themes SET is_active = FALSE, updated_at = NOW() WHERE is_active`)
	return err
}

func (t *txRepository) SetActive(ctx context.Context, id uuid.UUID) (Theme, error) {
	row := t.tx.QueryRow(ctx, `UPDATE themes SET is_active = TRUE, updated_at = NOW()
WHERE id = $1
RETURNING `+themeColumns, id)
	theme, err := scanTheme(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Theme{}, &shared.NotFound{Kind: "theme", ID: id.String()}
		}
		return Theme{}, err
	}
	return theme, nil
}

var (
	_ RepositoryPort = (*Repository)(nil)
	_ TxPort         = (*txRepository)(nil)
)
