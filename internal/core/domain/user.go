package domain

import "time"

// User models a registered identity on the platform. The password hash never
// leaves the process: it is excluded from every JSON rendering.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
