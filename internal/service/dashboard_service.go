package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	"factcheck/internal/domain"
	"factcheck/internal/repository"
)

const (
	dashboardWindowDays = 7
	recentChecksLimit   = 10
	dayKeyLayout        = "2006-01-02"
)

// DashboardService agrega el historial de checks de un usuario.
type DashboardService struct {
	users  repository.UserRepository
	checks repository.CheckRepository
}

func NewDashboardService(users repository.UserRepository, checks repository.CheckRepository) *DashboardService {
	return &DashboardService{users: users, checks: checks}
}

// BuildDashboard calcula el snapshot anclado en now. No escribe nada.
func (s *DashboardService) BuildDashboard(ctx context.Context, userID string, now time.Time) (domain.DashboardSnapshot, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.DashboardSnapshot{}, ErrUserNotFound
		}
		return domain.DashboardSnapshot{}, fmt.Errorf("%w: get user: %w", ErrStoreUnavailable, err)
	}

	windowStart := WindowStart(now)

	var weekChecks, recent []domain.CheckRecord
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		weekChecks, err = s.checks.QueryChecks(gctx, userID, windowStart, 0)
		if err != nil {
			return fmt.Errorf("%w: weekly checks: %w", ErrStoreUnavailable, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		recent, err = s.checks.QueryChecks(gctx, userID, time.Time{}, recentChecksLimit)
		if err != nil {
			return fmt.Errorf("%w: recent checks: %w", ErrStoreUnavailable, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.DashboardSnapshot{}, err
	}

	if recent == nil {
		recent = []domain.CheckRecord{}
	}
	featureUsage := user.Stats.FeatureUsage
	if featureUsage == nil {
		featureUsage = map[string]int{}
	}
	settings := user.SettingsHistory
	if settings == nil {
		settings = []domain.SettingsChange{}
	}

	return domain.DashboardSnapshot{
		Stats: domain.DashboardStats{
			TotalLinksChecked:   user.Stats.LinksChecked,
			AvgCredibilityScore: averageScore(recent),
		},
		WeeklyStats:     WeeklyBuckets(weekChecks, now),
		LoginTimes:      loginTimes(user),
		FeatureUsage:    featureUsage,
		SettingsChanges: settings,
		RecentLinks:     recent,
	}, nil
}

// WindowStart es la medianoche UTC de seis dias antes del dia de now.
func WindowStart(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return today.AddDate(0, 0, -(dashboardWindowDays - 1))
}

type dayAccumulator struct {
	count     int
	sum       int
	malicious int
	safe      int
}

// WeeklyBuckets pliega los checks en 7 buckets diarios, siempre presentes.
// Los checks cuyo dia no esta en la ventana se descartan.
func WeeklyBuckets(checks []domain.CheckRecord, now time.Time) map[string]domain.DayBucket {
	start := WindowStart(now)
	acc := make(map[string]*dayAccumulator, dashboardWindowDays)
	for i := 0; i < dashboardWindowDays; i++ {
		acc[start.AddDate(0, 0, i).Format(dayKeyLayout)] = &dayAccumulator{}
	}

	for _, c := range checks {
		day, ok := acc[c.CheckedAt.UTC().Format(dayKeyLayout)]
		if !ok {
			continue
		}
		day.count++
		day.sum += c.CredibilityScore
		if c.IsMalicious {
			day.malicious++
		} else {
			day.safe++
		}
	}

	out := make(map[string]domain.DayBucket, len(acc))
	for key, day := range acc {
		out[key] = day.finalize()
	}
	return out
}

func (d *dayAccumulator) finalize() domain.DayBucket {
	b := domain.DayBucket{
		Count:          d.count,
		MaliciousCount: d.malicious,
		SafeCount:      d.safe,
	}
	if d.count == 0 {
		return b
	}
	n := float64(d.count)
	b.AvgCredibility = round2(float64(d.sum) / n)
	b.PercentMalicious = round2(float64(d.malicious) / n * 100)
	b.PercentSafe = round2(float64(d.safe) / n * 100)
	return b
}

func averageScore(checks []domain.CheckRecord) float64 {
	if len(checks) == 0 {
		return 0
	}
	sum := 0
	for _, c := range checks {
		sum += c.CredibilityScore
	}
	return float64(sum) / float64(len(checks))
}

func loginTimes(user domain.UserRecord) domain.LoginTimes {
	var lt domain.LoginTimes
	if !user.LastLoginAt.IsZero() {
		t := user.LastLoginAt.UTC()
		lt.LastLoginAt = &t
	}
	if !user.CreatedAt.IsZero() {
		t := user.CreatedAt.UTC()
		lt.CreatedAt = &t
	}
	return lt
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
