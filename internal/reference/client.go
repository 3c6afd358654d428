package reference

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client fetches reference material and expected keywords for a subject.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Material holds the reference content and keywords configured for a subject.
type Material struct {
	Subject  string   `json:"subject"`
	Content  string   `json:"content"`
	Keywords []string `json:"keywords"`
}

// FetchMaterial retrieves reference content for the given subject. A 404 from
// the reference service is not an error, the analysis degrades to its own
// lexicons in that case.
func (c *Client) FetchMaterial(ctx context.Context, subject string) (*Material, error) {
	reqURL := fmt.Sprintf("%s/api/v1/subjects/%s/material", c.baseURL, url.PathEscape(subject))

	httpReq, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if c.apiKey != "" {
		httpReq.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
	}

	var material Material
	if err := json.Unmarshal(body, &material); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return &material, nil
}
