package dto

import (
	"github.com/spec-kit/lead-service/internal/domain"
)

// LoginRequest payload. Username may hold either the username or the email.
type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Identifier returns the login name supplied.
func (r LoginRequest) Identifier() string {
	if r.Username != "" {
		return r.Username
	}
	return r.Email
}

// AdminResponse is the public view of an admin.
type AdminResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// NewAdminResponse maps an admin.
func NewAdminResponse(a *domain.Admin) AdminResponse {
	return AdminResponse{ID: a.ID, Username: a.Username, Email: a.Email}
}

// LoginResponse is returned on successful login.
type LoginResponse struct {
	Token string        `json:"token"`
	Admin AdminResponse `json:"admin"`
}
