// Package models defines the client-side records exchanged with the
// ReceitaSecreta backend. JSON tags follow the backend's wire contract.
package models

import "time"

// Role classifies a user account.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// User is the account record returned by the auth endpoints. It is immutable
// on the client except for wholesale replacement on login.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Credentials is the login request payload.
type Credentials struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Registration is the register request payload.
type Registration struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Login    string `json:"login" validate:"required"`
}

// Session pairs the authenticated user with the bearer token. Both fields are
// set and cleared together; a session holding only one of them is invalid.
type Session struct {
	User  *User
	Token string
}

// IsAuthenticated reports whether the session holds both a user and a token.
func (s Session) IsAuthenticated() bool {
	return s.User != nil && s.Token != ""
}
