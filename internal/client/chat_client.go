package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"contact-intake-api/internal/metrics"
)

// ChatClient posts condensed notifications to a team chat webhook. Used for
// career entries only; always best-effort.
type ChatClient interface {
	NotifyCareerEntry(ctx context.Context, name, position, email string) error
}

type chatMessage struct {
	Text   string      `json:"text"`
	Blocks []chatBlock `json:"blocks,omitempty"`
}

type chatBlock struct {
	Type string        `json:"type"`
	Text chatBlockText `json:"text"`
}

type chatBlockText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type webhookChatClient struct {
	webhookURL string
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

// NewChatClient creates a webhook-backed chat client
func NewChatClient(webhookURL string, timeout time.Duration, logger *zap.Logger, m *metrics.Metrics) ChatClient {
	return &webhookChatClient{
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		metrics: m,
	}
}

func (c *webhookChatClient) NotifyCareerEntry(ctx context.Context, name, position, email string) error {
	msg := chatMessage{
		Text: "新しい採用エントリーがありました",
		Blocks: []chatBlock{
			{
				Type: "section",
				Text: chatBlockText{
					Type: "mrkdwn",
					Text: fmt.Sprintf("*新しい採用エントリー*\n\n*名前:* %s\n*希望職種:* %s\n*メール:* %s", name, position, email),
				},
			},
		},
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal chat message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(startTime)

	statusCode := 0
	if resp != nil {
		statusCode = resp.StatusCode
	}
	if c.metrics != nil {
		c.metrics.RecordExternalAPICall(c.webhookURL, http.MethodPost, statusCode, duration, err)
	}

	if err != nil {
		return fmt.Errorf("failed to post chat message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("Chat webhook returned non-success status",
			zap.Int("status_code", resp.StatusCode),
			zap.Duration("duration", duration),
		)
		return fmt.Errorf("chat webhook returned status %d", resp.StatusCode)
	}

	return nil
}

// NoOpChatClient is used when no webhook is configured
type NoOpChatClient struct{}

func NewNoOpChatClient() ChatClient {
	return &NoOpChatClient{}
}

func (c *NoOpChatClient) NotifyCareerEntry(ctx context.Context, name, position, email string) error {
	return nil
}
