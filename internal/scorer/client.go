package scorer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// HTTPScorer implementa Scorer contra un servicio externo de fact-checking.
type HTTPScorer struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
}

// NewHTTPScorer construye un cliente HTTP apuntando a {baseURL}/score.
func NewHTTPScorer(baseURL, apiKey string, logger *zap.Logger) *HTTPScorer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPScorer{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
		logger:  logger,
	}
}

func (c *HTTPScorer) Score(ctx context.Context, url string) (Result, error) {
	bodyBytes, err := json.Marshal(scoreRequest{URL: url})
	if err != nil {
		return Result{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/score", bytes.NewReader(bodyBytes))
	if err != nil {
		return Result{}, fmt.Errorf("create request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		c.logger.Warn("scorer error status",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(respBody)),
		)
		return Result{}, fmt.Errorf("scorer http error: status=%d", resp.StatusCode)
	}

	var sr scoreResponse
	if err := json.Unmarshal(respBody, &sr); err != nil {
		return Result{}, fmt.Errorf("unmarshal response: %w", err)
	}
	if sr.Error != nil {
		return Result{}, fmt.Errorf("scorer api error: %s", sr.Error.Message)
	}

	return Result{
		CredibilityScore: clampScore(sr.CredibilityScore),
		IsMalicious:      sr.IsMalicious,
		Summary:          sr.Summary,
	}, nil
}

type scoreRequest struct {
	URL string `json:"url"`
}

type scoreResponse struct {
	CredibilityScore int    `json:"credibilityScore"`
	IsMalicious      bool   `json:"isMalicious"`
	Summary          string `json:"summary"`
	Error            *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}
