package domain

import "time"

// UserRole enumera los roles soportados por la plataforma.
type UserRole string

const (
	RoleClient     UserRole = "Client"
	RoleAdmin      UserRole = "Admin"
	RoleSuperAdmin UserRole = "SuperAdmin"
)

// AuthProvider identifica el origen de la cuenta.
type AuthProvider string

const (
	ProviderLocal  AuthProvider = "Local"
	ProviderGoogle AuthProvider = "Google"
	ProviderGithub AuthProvider = "Github"
)

type User struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	Role         UserRole     `json:"role"`
	Verified     bool         `json:"verified"`
	Provider     AuthProvider `json:"provider,omitempty"`
	ProviderID   string       `json:"-"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}
