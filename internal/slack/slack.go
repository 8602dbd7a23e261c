// Package slack posts Block Kit messages to an incoming webhook.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/deusflow/ainews/internal/retry"
)

// Text is a Block Kit text object.
type Text struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Block is a Block Kit layout block. Only the block kinds the digest uses
// are modeled.
type Block struct {
	Type string `json:"type"`
	Text *Text  `json:"text,omitempty"`
}

// Message is one webhook payload.
type Message struct {
	Blocks []Block `json:"blocks"`
}

func HeaderBlock(text string) Block {
	return Block{Type: "header", Text: &Text{Type: "plain_text", Text: text}}
}

func DividerBlock() Block {
	return Block{Type: "divider"}
}

func SectionBlock(markdown string) Block {
	return Block{Type: "section", Text: &Text{Type: "mrkdwn", Text: markdown}}
}

// Client posts to one incoming webhook URL.
type Client struct {
	webhookURL string
	httpClient *http.Client
	retries    int
	retryDelay time.Duration
}

func NewClient(webhookURL string, timeout time.Duration, retries int, retryDelay time.Duration) *Client {
	return &Client{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: timeout},
		retries:    retries,
		retryDelay: retryDelay,
	}
}

// PostMessage sends one payload with retry/backoff. Slack answers webhook
// posts with a 2xx and the literal body "ok".
func (c *Client) PostMessage(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("error make JSON: %w", err)
	}

	return retry.WithRetry(ctx, retry.RetryConfig{MaxAttempts: c.retries, Delay: c.retryDelay, Backoff: true}, func() error {
		return c.postOnce(ctx, body)
	})
}

func (c *Client) postOnce(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("error build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error HTTP request: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Printf("Warning: failed to close response body: %v", closeErr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("slack webhook error: status %d: %s", resp.StatusCode, string(detail))
	}

	return nil
}
