package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// StatusError is a non-2xx response from the webhook. It aborts the
// remaining dispatch for the channel being walked.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("discord: webhook returned %d: %s", e.StatusCode, e.Body)
}

// Webhook posts embeds to a single Discord webhook URL.
type Webhook struct {
	url  string
	http *http.Client
}

func NewWebhook(url string) *Webhook {
	return &Webhook{url: url, http: &http.Client{Timeout: 15 * time.Second}}
}

type executePayload struct {
	Embeds []Embed `json:"embeds"`
}

// Send delivers one embed. At most one attempt; pacing is the caller's
// concern.
func (w *Webhook) Send(ctx context.Context, e Embed) error {
	body, err := json.Marshal(executePayload{Embeds: []Embed{e}})
	if err != nil {
		return fmt.Errorf("discord: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("discord: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.http.Do(req)
	if err != nil {
		return fmt.Errorf("discord: execute webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(b)}
	}
	return nil
}
