package groups

import "time"

// Group is a named role record. The six built-in roles live in this
// table alongside any custom groups an admin creates.
type Group struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
