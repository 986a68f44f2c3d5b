package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// Webhook delivers notifications as JSON POSTs to a user-configured
// endpoint, with transparent retries for transient failures.
type Webhook struct {
	url    string
	client *retryablehttp.Client
}

// webhookPayload is the JSON body sent per message.
type webhookPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// NewWebhook creates a webhook notifier for the given endpoint.
func NewWebhook(url string) *Webhook {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.RetryWaitMin = 500 * time.Millisecond
	client.RetryWaitMax = 5 * time.Second
	client.HTTPClient.Timeout = 10 * time.Second
	client.Logger = nil // routed through slog by callers, not retryablehttp's own logger
	return &Webhook{url: url, client: client}
}

// Send POSTs the message and treats any non-2xx status as a rejection.
func (w *Webhook) Send(ctx context.Context, title, body string) error {
	payload, err := json.Marshal(webhookPayload{Title: title, Body: body})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("POST %s: %w", w.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("POST %s: status %d", w.url, resp.StatusCode)
	}
	return nil
}
