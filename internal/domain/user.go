package domain

import "time"

// User owns every other entity. The ledger core never mutates users; the
// acting user's id only scopes reads and writes.
type User struct {
	ID             string
	Email          string
	Name           string
	HashedPassword string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
