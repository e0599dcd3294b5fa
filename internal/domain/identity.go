package domain

import "time"

// VerifiedSubject es lo que devuelve el proveedor de identidad tras validar un token.
type VerifiedSubject struct {
	ID            string
	Email         string
	DisplayName   string
	EmailVerified bool
	TokenID       string
	ExpiresAt     time.Time
}

// IdentityContext combina el sujeto verificado con el UserRecord persistido.
type IdentityContext struct {
	UserID        string     `json:"userId"`
	Email         string     `json:"email"`
	EmailVerified bool       `json:"emailVerified"`
	User          UserRecord `json:"user"`
	TokenID       string     `json:"-"`
	TokenExpires  time.Time  `json:"-"`
}

// Credential es la cuenta local del proveedor de identidad (email + password).
type Credential struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	DisplayName   string    `json:"displayName"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
}
