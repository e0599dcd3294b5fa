package scorer

import (
	"context"
	"math/rand/v2"
)

const (
	placeholderSummary = "This is a demo fact-check result. In production, this would contain real analysis."
	maliciousThreshold = 20
)

// RandomScorer devuelve scores aleatorios; se usa cuando no hay scorer configurado.
type RandomScorer struct {
	intn func(n int) int
}

func NewRandomScorer() *RandomScorer {
	return &RandomScorer{intn: rand.IntN}
}

func (s *RandomScorer) Score(_ context.Context, _ string) (Result, error) {
	score := s.intn(100)
	return Result{
		CredibilityScore: score,
		IsMalicious:      score < maliciousThreshold,
		Summary:          placeholderSummary,
	}, nil
}
