package users

import "time"

// User is a managed account together with its assigned group names.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Groups       []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
