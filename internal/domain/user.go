package domain

import "time"

// User is a storefront account. PasswordHash never leaves the auth flow.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
