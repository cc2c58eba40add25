package service

import "errors"

// Errores de negocio del subsistema de autenticacion. La capa HTTP los
// mapea a codigos de estado; aca nunca se asignan codigos.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotVerified        = errors.New("account not verified")
	ErrAlreadyVerified    = errors.New("account already verified")
	ErrInvalidOldPassword = errors.New("invalid old password")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrInvalidCode        = errors.New("invalid verification code")
	ErrCodeExpired        = errors.New("verification code expired")
	ErrNoToken            = errors.New("no token provided")
	ErrTokenCreation      = errors.New("token creation failed")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrEmailDelivery      = errors.New("email delivery failed")
	ErrRateLimited        = errors.New("rate limited")
	ErrOAuthInvalid       = errors.New("oauth data invalid")
	ErrInvalidRole        = errors.New("invalid role")
	ErrScheduleTaken      = errors.New("schedule slot already taken")
	ErrPropertyNotFound   = errors.New("property not found")
)
