package plugins

import (
	"time"

	"github.com/google/uuid"
)

// Plugin is an installable extension. Unlike themes, any number of
// plugins may be active at once.
type Plugin struct {
	ID        uuid.UUID
	Name      string
	Version   string
	IsActive  bool
	Settings  map[string]string
	CreatedAt time.Time
	UpdatedAt time.Time
}
