package domain

import "time"

// User represents a registered user who owns a list of favorite movies.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
