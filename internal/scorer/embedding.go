package scorer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/devarajan8/veritas/internal/models"
)

// EmbeddingScorer calls an external embedding service that returns a cosine
// similarity between the text sample and the subject description.
type EmbeddingScorer struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewEmbeddingScorer(baseURL, apiKey string) *EmbeddingScorer {
	return &EmbeddingScorer{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (s *EmbeddingScorer) Method() models.RelevanceMethod {
	return models.MethodEmbeddingBased
}

type embeddingRequest struct {
	Text    string `json:"text"`
	Subject string `json:"subject"`
}

type embeddingResponse struct {
	Similarity float64 `json:"similarity"` // cosine, [0,1]
}

func (s *EmbeddingScorer) ScoreRelevance(ctx context.Context, sample, subject string) (float64, error) {
	reqBody, err := json.Marshal(embeddingRequest{Text: sample, Subject: subject})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/relevance", s.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(reqBody))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		httpReq.Header.Set("x-api-key", s.apiKey)
	}

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return 0, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
	}

	var embResp embeddingResponse
	if err := json.Unmarshal(body, &embResp); err != nil {
		return 0, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return clampScore(embResp.Similarity * 100), nil
}
