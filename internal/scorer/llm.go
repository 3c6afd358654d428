package scorer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/devarajan8/veritas/internal/models"
	"github.com/rs/zerolog/log"
)

// RemoteLLMScorer rates subject relevance by prompting a remote chat-style
// LLM API for a 0-100 score. The model's output is untrusted: the response is
// parsed as JSON first, then scanned for a bare number, and anything else is
// an error so the caller treats the signal as absent.
type RemoteLLMScorer struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewRemoteLLMScorer(baseURL, apiKey, model string) *RemoteLLMScorer {
	return &RemoteLLMScorer{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (s *RemoteLLMScorer) Method() models.RelevanceMethod {
	return models.MethodLLMBased
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type llmScorePayload struct {
	RelevanceScore float64 `json:"relevance_score"`
}

var bareNumberRe = regexp.MustCompile(`\b(\d{1,3})\b`)

func (s *RemoteLLMScorer) ScoreRelevance(ctx context.Context, sample, subject string) (float64, error) {
	prompt := fmt.Sprintf(
		"Rate how relevant this text is to the subject %q on a scale of 0-100. "+
			"Respond in JSON: {\"relevance_score\": number}\n\nTEXT:\n%s",
		subject, sample)

	reqBody, err := json.Marshal(chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		MaxTokens:   150,
		Temperature: 0.2,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/chat/completions", s.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(reqBody))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)
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

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return 0, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return 0, fmt.Errorf("empty completion response")
	}

	score, err := parseScore(chatResp.Choices[0].Message.Content)
	if err != nil {
		log.Warn().Err(err).Str("subject", subject).Msg("LLM returned unparseable relevance output")
		return 0, err
	}
	return score, nil
}

// parseScore extracts a 0-100 score from model output: embedded JSON first,
// then the first bare number.
func parseScore(content string) (float64, error) {
	start := bytes.IndexByte([]byte(content), '{')
	end := bytes.LastIndexByte([]byte(content), '}')
	if start >= 0 && end > start {
		var payload llmScorePayload
		if err := json.Unmarshal([]byte(content[start:end+1]), &payload); err == nil {
			return clampScore(payload.RelevanceScore), nil
		}
	}

	if m := bareNumberRe.FindString(content); m != "" {
		n, err := strconv.Atoi(m)
		if err == nil {
			return clampScore(float64(n)), nil
		}
	}

	return 0, fmt.Errorf("no score found in model output")
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
