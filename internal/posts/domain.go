package posts

import (
	"time"

	"github.com/google/uuid"

	"github.com/lumenpress/lumen/internal/workflow"
)

// Post is a publishable content item. The author is fixed at creation
// and never reassigned by updates.
type Post struct {
	ID        uuid.UUID
	Title     string
	Content   string
	AuthorID  int64
	Status    workflow.Status
	CreatedAt time.Time
	UpdatedAt time.Time
}
