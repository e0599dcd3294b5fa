package domain

import "time"

// CheckRecord es el resultado inmutable de un fact-check enviado por un usuario.
type CheckRecord struct {
	ID               string    `json:"id"`
	URL              string    `json:"url"`
	UserID           string    `json:"userId"`
	CredibilityScore int       `json:"credibilityScore"`
	IsMalicious      bool      `json:"isMalicious"`
	Summary          string    `json:"summary,omitempty"`
	CheckedAt        time.Time `json:"checkedAt"`
}
