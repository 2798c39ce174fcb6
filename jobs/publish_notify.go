package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PublishNotifyJob informs administrator accounts about newly published
// posts. Delivery is a log line for now; SMTP wiring comes later.
type PublishNotifyJob struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewPublishNotifyJob constructs the notify job.
func NewPublishNotifyJob(pool *pgxpool.Pool, logger *slog.Logger) *PublishNotifyJob {
	return &PublishNotifyJob{pool: pool, logger: logger}
}

// Handle processes TaskTypePublishNotify tasks.
func (j *PublishNotifyJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload PublishNotifyPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	recipients, err := j.adminEmails(ctx)
	if err != nil {
		if j.logger != nil {
			j.logger.Error("resolve notify recipients", slog.Any("error", err))
		}
		return err
	}
	if j.logger != nil {
		j.logger.Info("post published",
			slog.String("post_id", payload.PostID.String()),
			slog.String("title", payload.Title),
			slog.Int("recipients", len(recipients)),
			slog.String("job", "publish_notify"))
	}
	return nil
}

func (j *PublishNotifyJob) adminEmails(ctx context.Context) ([]string, error) {
	if j.pool == nil {
		return nil, nil
	}
	rows, err := j.pool.Query(ctx, `SELECT DISTINCT u.email FROM users u
JOIN user_groups ug ON ug.user_id = u.id
JOIN groups g ON g.id = ug.group_id
WHERE lower(g.name) IN ('administrator', 'super admin')`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}
