package reference

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchMaterial(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.EscapedPath() != "/api/v1/subjects/quantum%20mechanics/material" {
			t.Errorf("path = %q", r.URL.EscapedPath())
		}
		json.NewEncoder(w).Encode(Material{
			Subject:  "quantum mechanics",
			Content:  "reference content",
			Keywords: []string{"quantum", "superposition"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	material, err := c.FetchMaterial(context.Background(), "quantum mechanics")
	if err != nil {
		t.Fatalf("FetchMaterial returned error: %v", err)
	}
	if material == nil || material.Content != "reference content" {
		t.Fatalf("material = %+v", material)
	}
	if len(material.Keywords) != 2 {
		t.Errorf("Keywords = %v, want 2 entries", material.Keywords)
	}
}

func TestFetchMaterialNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	material, err := c.FetchMaterial(context.Background(), "unlisted subject")
	if err != nil {
		t.Fatalf("FetchMaterial returned error for 404: %v", err)
	}
	if material != nil {
		t.Errorf("material = %+v, want nil for an unknown subject", material)
	}
}

func TestFetchMaterialServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	if _, err := c.FetchMaterial(context.Background(), "physics"); err == nil {
		t.Error("FetchMaterial succeeded against a failing backend, want error")
	}
}
