package plugins

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

const pluginColumns = `id, name, version, is_active, settings, created_at, updated_at`

func scanPlugin(row pgx.Row) (Plugin, error) {
	var plugin Plugin
	if err := row.Scan(&plugin.ID, &plugin.Name, &plugin.Version, &plugin.IsActive, &plugin.Settings, &plugin.CreatedAt, &plugin.UpdatedAt); err != nil {
		return Plugin{}, err
	}
	return plugin, nil
}

// Insert stores a new plugin.
func (r *Repository) Insert(ctx context.Context, plugin Plugin) (Plugin, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO plugins (id, name, version, is_active, settings)
VALUES ($1, $2, $3, $4, $5)
RETURNING `+pluginColumns, plugin.ID, plugin.Name, plugin.Version, plugin.IsActive, plugin.Settings)
	return scanPlugin(row)
}

// Get fetches a plugin by id.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (Plugin, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+pluginColumns+` FROM plugins WHERE id = $1`, id)
	plugin, err := scanPlugin(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Plugin{}, &shared.NotFound{Kind: "plugin", ID: id.String()}
		}
		return Plugin{}, err
	}
	return plugin, nil
}

// Update persists changed fields of a plugin.
func (r *Repository) Update(ctx context.Context, plugin Plugin) (Plugin, error) {
	row := r.pool.QueryRow(ctx, `UPDATE plugins
SET name = $2, version = $3, settings = $4, updated_at = NOW()
WHERE id = $1
RETURNING `+pluginColumns, plugin.ID, plugin.Name, plugin.Version, plugin.Settings)
	updated, err := scanPlugin(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Plugin{}, &shared.NotFound{Kind: "plugin", ID: plugin.ID.String()}
		}
		return Plugin{}, err
	}
	return updated, nil
}

// Delete removes a plugin by id.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM plugins WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return &shared.NotFound{Kind: "plugin", ID: id.String()}
	}
	return nil
}

// List returns all plugins, active ones first then by name.
func (r *Repository) List(ctx context.Context) ([]Plugin, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+pluginColumns+` FROM plugins ORDER BY is_active DESC, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []Plugin
	for rows.Next() {
		plugin, err := scanPlugin(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, plugin)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// SetActive flips the activation flag of a single plugin.
func (r *Repository) SetActive(ctx context.Context, id uuid.UUID, active bool) (Plugin, error) {
	row := r.pool.QueryRow(ctx, `UPDATE plugins SET is_active = $2, updated_at = NOW()
WHERE id = $1
RETURNING `+pluginColumns, id, active)
	plugin, err := scanPlugin(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Plugin{}, &shared.NotFound{Kind: "plugin", ID: id.String()}
		}
		return Plugin{}, err
	}
	return plugin, nil
}

var _ RepositoryPort = (*Repository)(nil)
