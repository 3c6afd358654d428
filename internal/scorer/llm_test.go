package scorer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestParseScore(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    float64
		wantErr bool
	}{
		{
			name:    "clean json",
			content: `{"relevance_score": 85}`,
			want:    85,
		},
		{
			name:    "json wrapped in prose",
			content: `Sure, here is my assessment: {"relevance_score": 62.5} based on the text.`,
			want:    62.5,
		},
		{
			name:    "bare number fallback",
			content: `The relevance is 73 out of 100.`,
			want:    73,
		},
		{
			name:    "json clamped above 100",
			content: `{"relevance_score": 140}`,
			want:    100,
		},
		{
			name:    "no score at all",
			content: `I am unable to assess this text.`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseScore(tt.content)
			if tt.wantErr {
				if err == nil {
					t.Errorf("parseScore(%q) = %v, want error", tt.content, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseScore(%q) returned error: %v", tt.content, err)
			}
			if got != tt.want {
				t.Errorf("parseScore(%q) = %v, want %v", tt.content, got, tt.want)
			}
		})
	}
}

func TestRemoteLLMScorerScoreRelevance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %q, want /v1/chat/completions", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Model != "test-model" {
			t.Errorf("model = %q, want test-model", req.Model)
		}

		resp := chatResponse{}
		resp.Choices = append(resp.Choices, struct {
			Message chatMessage `json:"message"`
		}{Message: chatMessage{Role: "assistant", Content: `{"relevance_score": 77}`}})
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	s := NewRemoteLLMScorer(srv.URL, "test-key", "test-model")
	got, err := s.ScoreRelevance(context.Background(), "sample text", "physics")
	if err != nil {
		t.Fatalf("ScoreRelevance returned error: %v", err)
	}
	if got != 77 {
		t.Errorf("score = %v, want 77", got)
	}
}

func TestRemoteLLMScorerServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	s := NewRemoteLLMScorer(srv.URL, "", "test-model")
	if _, err := s.ScoreRelevance(context.Background(), "sample", "physics"); err == nil {
		t.Error("ScoreRelevance succeeded against a failing backend, want error")
	}
}
