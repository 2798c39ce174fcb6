package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MediaSweepJob deletes media records whose uploader no longer exists.
type MediaSweepJob struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewMediaSweepJob constructs the sweep job.
func NewMediaSweepJob(pool *pgxpool.Pool, logger *slog.Logger) *MediaSweepJob {
	return &MediaSweepJob{pool: pool, logger: logger}
}

// Handle processes TaskTypeMediaSweep tasks.
func (j *MediaSweepJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j.pool == nil {
		return nil
	}
	tag, err := j.pool.Exec(ctx, `DELETE FROM media
WHERE author_id NOT IN (SELECT id FROM users)`)
	if err != nil {
		if j.logger != nil {
			j.logger.Error("sweep orphaned media", slog.Any("error", err))
		}
		return err
	}
	if j.logger != nil && tag.RowsAffected() > 0 {
		j.logger.Info("swept orphaned media",
			slog.Int64("deleted", tag.RowsAffected()),
			slog.String("job", "media_sweep"))
	}
	return nil
}
