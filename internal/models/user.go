package models

import "time"

// Role is the authorization tag carried by a credential.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User is a stored credential. PasswordHash never leaves the process.
type User struct {
	Meta
	Username     string `json:"username"`
	PasswordHash string `json:"passwordHash"`
	Role         Role   `json:"role"`
}

// View returns the public projection of the user.
func (u User) View() UserView {
	return UserView{ID: u.ID, Username: u.Username, Role: u.Role}
}

// UserView is the public projection of a credential.
type UserView struct {
	ID       string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Username string `json:"username" example:"admin"`
	Role     Role   `json:"role" example:"admin"`
} // @name UserView

// LoginRequest represents the credentials submitted for a token.
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"admin"`
	Password string `json:"password" binding:"required" example:"correct horse battery staple"`
} // @name LoginRequest

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt" example:"2025-11-06T10:00:00Z"`
	User      UserView  `json:"user"`
} // @name LoginResponse

// RegisterRequest represents the request to create a credential.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64" example:"editor"`
	Password string `json:"password" binding:"required,min=8,max=72" example:"correct horse battery staple"`
	Role     Role   `json:"role,omitempty" binding:"omitempty,oneof=admin user" example:"user"`
} // @name RegisterRequest

// RegisterResponse echoes the created credential.
type RegisterResponse struct {
	Message string   `json:"message" example:"User created successfully"`
	User    UserView `json:"user"`
} // @name RegisterResponse
