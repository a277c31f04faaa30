package model

import "time"

// User represents an end-user row in the `users` table. End users log in
// with either email or username.
type User struct {
	ID           string    // users.id (24-hex)
	Username     string    // users.username
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	RefreshToken string    // users.refresh_token
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
