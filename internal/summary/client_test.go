package summary

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSummarizeRoundtrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req summarizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req.Content != "long chapter text" {
			t.Errorf("unexpected content %q", req.Content)
		}
		json.NewEncoder(w).Encode(summarizeResponse{Summary: "tl;dr"})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	summary, err := client.Summarize(context.Background(), "long chapter text")
	if err != nil {
		t.Fatalf("summarize failed: %v", err)
	}
	if summary != "tl;dr" {
		t.Fatalf("expected tl;dr, got %q", summary)
	}
}

func TestSummarizeNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if _, err := client.Summarize(context.Background(), "text"); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}

func TestSummarizeUnconfigured(t *testing.T) {
	client := NewClient("")
	if _, err := client.Summarize(context.Background(), "text"); err == nil {
		t.Fatal("expected error when endpoint is not configured")
	}
}
