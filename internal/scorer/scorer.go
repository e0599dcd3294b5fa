package scorer

import "context"

// Result es la salida opaca del servicio de scoring.
type Result struct {
	CredibilityScore int    `json:"credibilityScore"`
	IsMalicious      bool   `json:"isMalicious"`
	Summary          string `json:"summary"`
}

// Scorer evalua la credibilidad de una URL.
type Scorer interface {
	Score(ctx context.Context, url string) (Result, error)
}

// MockScorer permite tests sin llamar a un scorer real.
type MockScorer struct {
	Result Result
	Err    error
}

func (m *MockScorer) Score(_ context.Context, _ string) (Result, error) {
	return m.Result, m.Err
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
