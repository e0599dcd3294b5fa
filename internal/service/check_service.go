package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"factcheck/internal/domain"
	"factcheck/internal/repository"
	"factcheck/internal/scorer"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// CheckService registra fact-checks y expone el historial.
type CheckService struct {
	logger  *zap.Logger
	checks  repository.CheckRepository
	users   repository.UserRepository
	scorer  scorer.Scorer
	limiter RateLimiter
	now     func() time.Time
}

func NewCheckService(logger *zap.Logger, checks repository.CheckRepository, users repository.UserRepository, sc scorer.Scorer, limiter RateLimiter) *CheckService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sc == nil {
		sc = scorer.NewRandomScorer()
	}
	return &CheckService{
		logger:  logger,
		checks:  checks,
		users:   users,
		scorer:  sc,
		limiter: limiter,
		now:     time.Now,
	}
}

func (s *CheckService) Submit(ctx context.Context, userID, rawURL string) (domain.CheckRecord, error) {
	link, err := normalizeURL(rawURL)
	if err != nil {
		return domain.CheckRecord{}, err
	}
	if s.limiter != nil && !s.limiter.Allow(ctx, userID) {
		return domain.CheckRecord{}, ErrRateLimited
	}

	result, err := s.scorer.Score(ctx, link)
	if err != nil {
		return domain.CheckRecord{}, fmt.Errorf("score url: %w", err)
	}

	check := domain.CheckRecord{
		ID:               uuid.NewString(),
		URL:              link,
		UserID:           userID,
		CredibilityScore: result.CredibilityScore,
		IsMalicious:      result.IsMalicious,
		Summary:          result.Summary,
		CheckedAt:        s.now().UTC(),
	}
	if err := s.checks.Create(ctx, check); err != nil {
		return domain.CheckRecord{}, fmt.Errorf("%w: create check: %w", ErrStoreUnavailable, err)
	}

	// El contador de por vida se actualiza aparte; un fallo no invalida el check.
	if err := s.users.IncrementChecks(ctx, userID, domain.FeatureLinkCheck, check.CheckedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error("increment checks: user not found", zap.String("user_id", userID))
		} else {
			s.logger.Error("increment checks failed", zap.Error(err), zap.String("user_id", userID))
		}
	}

	return check, nil
}

// History devuelve los checks mas recientes del usuario.
func (s *CheckService) History(ctx context.Context, userID string, limit int) ([]domain.CheckRecord, error) {
	limit = HistoryLimit(limit)
	checks, err := s.checks.QueryChecks(ctx, userID, time.Time{}, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: list checks: %w", ErrStoreUnavailable, err)
	}
	if checks == nil {
		checks = []domain.CheckRecord{}
	}
	return checks, nil
}

// HistoryLimit aplica el default y el maximo del historial.
func HistoryLimit(limit int) int {
	if limit <= 0 {
		return defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		return maxHistoryLimit
	}
	return limit
}

func normalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidURL
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", ErrInvalidURL
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return "", ErrInvalidURL
	}
	return u.String(), nil
}
