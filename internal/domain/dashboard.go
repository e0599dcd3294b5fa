package domain

import "time"

// DayBucket agrega los checks de un dia calendario (UTC).
type DayBucket struct {
	Count            int     `json:"count"`
	AvgCredibility   float64 `json:"avgCredibility"`
	MaliciousCount   int     `json:"maliciousCount"`
	SafeCount        int     `json:"safeCount"`
	PercentMalicious float64 `json:"percentMalicious"`
	PercentSafe      float64 `json:"percentSafe"`
}

type DashboardStats struct {
	TotalLinksChecked   int     `json:"totalLinksChecked"`
	AvgCredibilityScore float64 `json:"avgCredibilityScore"`
}

type LoginTimes struct {
	LastLoginAt *time.Time `json:"lastLoginAt"`
	CreatedAt   *time.Time `json:"createdAt"`
}

// DashboardSnapshot es la vista de estadisticas de un usuario.
type DashboardSnapshot struct {
	Stats           DashboardStats       `json:"stats"`
	WeeklyStats     map[string]DayBucket `json:"weeklyStats"`
	LoginTimes      LoginTimes           `json:"loginTimes"`
	FeatureUsage    map[string]int       `json:"featureUsage"`
	SettingsChanges []SettingsChange     `json:"settingsChanges"`
	RecentLinks     []CheckRecord        `json:"recentLinks"`
}
