package media

import (
	"context"
	"errors"

	"github.com/google/uuid"
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

const mediaColumns = `id, name, path, mime_type, size_bytes, author_id, created_at, updated_at`

func scanMedia(row pgx.Row) (Media, error) {
	var item Media
	if err := row.Scan(&item.ID, &item.Name, &item.Path, &item.MimeType, &item.SizeBytes, &item.AuthorID, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return Media{}, err
	}
	return item, nil
}

// Insert stores a new media record.
func (r *Repository) Insert(ctx context.Context, item Media) (Media, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO media (id, name, path, mime_type, size_bytes, author_id)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING `+mediaColumns, item.ID, item.Name, item.Path, item.MimeType, item.SizeBytes, item.AuthorID)
	return scanMedia(row)
}

// Get fetches a media record by id.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (Media, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+mediaColumns+` FROM media WHERE id = $1`, id)
	item, err := scanMedia(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Media{}, &shared.NotFound{Kind: "media", ID: id.String()}
		}
		return Media{}, err
	}
	return item, nil
}

// Delete removes a media record by id.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM media WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return &shared.NotFound{Kind: "media", ID: id.String()}
	}
	return nil
}

// List returns all media, newest first.
func (r *Repository) List(ctx context.Context) ([]Media, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+mediaColumns+` FROM media ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []Media
	for rows.Next() {
		item, err := scanMedia(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

var _ RepositoryPort = (*Repository)(nil)
