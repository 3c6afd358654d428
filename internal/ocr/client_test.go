package ocr

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestExtractText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/extract" {
			t.Errorf("path = %q, want /api/v1/extract", r.URL.Path)
		}
		if got := r.Header.Get("x-api-key"); got != "ocr-key" {
			t.Errorf("x-api-key = %q", got)
		}

		var req ExtractRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.AssignmentID != "a-1" {
			t.Errorf("assignmentId = %q, want a-1", req.AssignmentID)
		}

		json.NewEncoder(w).Encode(ExtractResponse{
			AssignmentID: req.AssignmentID,
			Text:         "extracted document text",
			PageCount:    3,
			Confidence:   0.97,
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "ocr-key")
	resp, err := c.ExtractText(context.Background(), &ExtractRequest{
		AssignmentID: "a-1",
		FilePath:     "/uploads/a-1.pdf",
	})
	if err != nil {
		t.Fatalf("ExtractText returned error: %v", err)
	}
	if resp.Text != "extracted document text" {
		t.Errorf("Text = %q", resp.Text)
	}
	if resp.PageCount != 3 {
		t.Errorf("PageCount = %d, want 3", resp.PageCount)
	}
}

func TestExtractTextAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{
			"error":   "unsupported_format",
			"message": "cannot extract from this file type",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	if _, err := c.ExtractText(context.Background(), &ExtractRequest{AssignmentID: "a-2", FilePath: "/x.bin"}); err == nil {
		t.Error("ExtractText succeeded for an API error response, want error")
	}
}
