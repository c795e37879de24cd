package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestWebhook_Send_PostsJSONContent(t *testing.T) {
	var gotContentType string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	wh := NewWebhook(server.URL)
	if err := wh.Send(context.Background(), "❗ no new shares, restarting"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", gotContentType)
	}

	var payload struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal(gotBody, &payload); err != nil {
		t.Fatalf("body is not valid JSON: %v", err)
	}
	if payload.Content != "❗ no new shares, restarting" {
		t.Errorf("content = %q, want the original message", payload.Content)
	}
}

func TestWebhook_Send_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	wh := NewWebhook(server.URL)
	if err := wh.Send(context.Background(), "hello"); err == nil {
		t.Error("expected error for non-2xx response")
	}
}

func TestWebhook_Send_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	wh := NewWebhook(url)
	if err := wh.Send(context.Background(), "hello"); err == nil {
		t.Error("expected error for unreachable webhook")
	}
}

func TestWebhook_Send_BoundedBySendTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	wh := NewWebhook(server.URL)

	// parent context shorter than sendTimeout: Send must return promptly
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := wh.Send(ctx, "slow")
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Send did not honor context, took %s", elapsed)
	}
}

func TestNewWebhook_EmptyURLIsNoOp(t *testing.T) {
	wh := NewWebhook("")
	if wh != nil {
		t.Fatal("expected nil webhook for empty URL")
	}
	// nil receiver must be safe and silently succeed
	if err := wh.Send(context.Background(), "dropped"); err != nil {
		t.Errorf("nil webhook Send returned error: %v", err)
	}
}
