package domain

import "time"

// Admin is the single-role account allowed onto the protected surface.
type Admin struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session describes an issued admin token.
type Session struct {
	TokenID   string
	AdminID   string
	ExpiresAt time.Time
	IssuedAt  time.Time
}
