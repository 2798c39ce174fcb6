package themes

import (
	"time"

	"github.com/google/uuid"
)

// Theme is a site theme. At most one theme is active at any time.
type Theme struct {
	ID        uuid.UUID
	Name      string
	Version   string
	IsActive  bool
	Options   map[string]string
	CreatedAt time.Time
	UpdatedAt time.Time
}
