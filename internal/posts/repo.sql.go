package posts

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lumenpress/lumen/internal/shared"
	"github.com/lumenpress/lumen/internal/workflow"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const postColumns = `id, title, content, author_id, status, created_at, updated_at`

func scanPost(row pgx.Row) (Post, error) {
	var post Post
	var status string
	if err := row.Scan(&post.ID, &post.Title, &post.Content, &post.AuthorID, &status, &post.CreatedAt, &post.UpdatedAt); err != nil {
		return Post{}, err
	}
	post.Status = workflow.Status(status)
	return post, nil
}

// Insert stores a new post.
func (r *Repository) Insert(ctx context.Context, post Post) (Post, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO posts (id, title, content, author_id, status)
VALUES ($1, $2, $3, $4, $5)
RETURNING `+postColumns, post.ID, post.Title, post.Content, post.AuthorID, string(post.Status))
	return scanPost(row)
}

// Get fetches a post by id.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (Post, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	post, err := scanPost(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Post{}, &shared.NotFound{Kind: "post", ID: id.String()}
		}
		return Post{}, err
	}
	return post, nil
}

// Update persists changed fields of a post.
func (r *Repository) Update(ctx context.Context, post Post) (Post, error) {
	row := r.pool.QueryRow(ctx, `UPDATE posts
SET title = $2, content = $3, status = $4, updated_at = NOW()
WHERE id = $1
RETURNING `+postColumns, post.ID, post.Title, post.Content, string(post.Status))
	updated, err := scanPost(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Post{}, &shared.NotFound{Kind: "post", ID: post.ID.String()}
		}
		return Post{}, err
	}
	return updated, nil
}

// Delete removes a post by id.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return &shared.NotFound{Kind: "post", ID: id.String()}
	}
	return nil
}

// List returns posts within the given visibility scope, newest first.
func (r *Repository) List(ctx context.Context, scope workflow.Scope, viewerID int64) ([]Post, error) {
	var (
		rows pgx.Rows
		err  error
	)
	switch scope {
	case workflow.ScopeAll:
		rows, err = r.pool.Query(ctx, `SELECT `+postColumns+` FROM posts ORDER BY created_at DESC`)
	case workflow.ScopeOwnOrPublished:
		rows, err = r.pool.Query(ctx, `SELECT `+postColumns+` FROM posts
WHERE status = 'publish' OR author_id = $1 ORDER BY created_at DESC`, viewerID)
	default:
		rows, err = r.pool.Query(ctx, `SELECT `+postColumns+` FROM posts
WHERE status = 'publish' ORDER BY created_at DESC`)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, post)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

var _ RepositoryPort = (*Repository)(nil)
