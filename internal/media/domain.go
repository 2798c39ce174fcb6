package media

import (
	"time"

	"github.com/google/uuid"
)

// Media is an uploaded asset reference. The binary itself lives in
// object storage; only metadata is kept here.
type Media struct {
	ID        uuid.UUID
	Name      string
	Path      string
	MimeType  string
	SizeBytes int64
	AuthorID  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
