package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// sendTimeout bounds a single webhook delivery attempt.
const sendTimeout = 5 * time.Second

// message is the JSON payload posted to the webhook.
type message struct {
	Content string `json:"content"`
}

// Webhook posts short text messages to a single configured URL.
//
// A nil *Webhook is valid and drops every message, so callers can hold a
// Webhook unconditionally and skip the "is notification configured" check.
type Webhook struct {
	url        string
	httpClient *http.Client
}

// NewWebhook creates a [Webhook] for the given URL.
//
// Returns nil when url is empty, which yields a no-op webhook.
func NewWebhook(url string) *Webhook {
	if url == "" {
		return nil
	}
	return &Webhook{
		url:        url,
		httpClient: &http.Client{},
	}
}

// Send posts msg to the webhook as a {"content": msg} JSON body.
//
// The attempt is bounded by a 5 second timeout. The returned error is for
// local logging only; delivery failures must never influence the monitor
// loop, and there are no retries.
func (w *Webhook) Send(ctx context.Context, msg string) error {
	if w == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	body, err := json.Marshal(message{Content: msg})
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notification delivery failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notification rejected with status %d", resp.StatusCode)
	}

	return nil
}
