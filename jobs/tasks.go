package jobs

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypePublishNotify notifies site admins that a post went live.
	TaskTypePublishNotify = "posts:publish_notify"
	// TaskTypeMediaSweep removes media records orphaned by user deletion.
	TaskTypeMediaSweep = "media:sweep_orphans"
)

// PublishNotifyPayload identifies the freshly published post.
type PublishNotifyPayload struct {
	PostID   uuid.UUID `json:"post_id"`
	Title    string    `json:"title"`
	AuthorID int64     `json:"author_id"`
}

// NewPublishNotifyTask constructs an Asynq task.
func NewPublishNotifyTask(payload PublishNotifyPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypePublishNotify, data), nil
}

// NewMediaSweepTask constructs the cron sweep task. It carries no payload.
func NewMediaSweepTask() *asynq.Task {
	return asynq.NewTask(TaskTypeMediaSweep, nil)
}
