package model

import "time"

// Admin represents a row in the `admins` table. Role is a free-form label
// ("admin", "superadmin"); it is embedded into access tokens as the role
// claim. The bootstrap admin is created lazily on first login with the
// configured static credentials.
type Admin struct {
	ID           string    // admins.id (24-hex)
	Name         string    // admins.name
	Email        string    // admins.email
	PasswordHash string    // admins.password_hash
	Role         string    // admins.role
	RefreshToken string    // admins.refresh_token
	CreatedAt    time.Time // admins.created_at
	UpdatedAt    time.Time // admins.updated_at
}
