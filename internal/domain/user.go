package domain

import "time"

// UserRecord es la proyeccion persistida de una identidad mas el estado de la app.
type UserRecord struct {
	ID              string           `json:"id"`
	Email           string           `json:"email"`
	FirstName       string           `json:"firstName"`
	LastName        string           `json:"lastName"`
	IsVerified      bool             `json:"isVerified"`
	Profile         Profile          `json:"profile"`
	Stats           UserStats        `json:"stats"`
	SettingsHistory []SettingsChange `json:"settingsHistory"`
	CreatedAt       time.Time        `json:"createdAt"`
	LastLoginAt     time.Time        `json:"lastLoginAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

type Profile struct {
	Bio    string `json:"bio"`
	Avatar string `json:"avatar"`
}

type UserStats struct {
	LinksChecked int            `json:"linksChecked"`
	FeatureUsage map[string]int `json:"featureUsage"`
}

// SettingsChange registra un cambio de un campo del perfil.
type SettingsChange struct {
	Field     string    `json:"field"`
	OldValue  string    `json:"oldValue"`
	NewValue  string    `json:"newValue"`
	ChangedAt time.Time `json:"changedAt"`
}

// ProfileFields son los campos editables por el usuario; nil deja el valor actual.
type ProfileFields struct {
	FirstName *string
	LastName  *string
	Bio       *string
	Avatar    *string
}

// FeatureLinkCheck es la clave de featureUsage para envios de checks.
const FeatureLinkCheck = "linkCheck"
