package service

import "errors"

// Autenticacion.
var (
	ErrCredentialMissing = errors.New("credential missing")
	ErrCredentialExpired = errors.New("credential expired")
	ErrCredentialRevoked = errors.New("credential revoked")
	ErrCredentialInvalid = errors.New("credential invalid")
)

// Proveedor de identidad local.
var (
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrWeakPassword       = errors.New("password too short")
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrInvalidURL       = errors.New("invalid url")
	ErrRateLimited      = errors.New("rate limited")
)
