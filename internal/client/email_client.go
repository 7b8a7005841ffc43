package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"contact-intake-api/internal/metrics"
)

const defaultResendBaseURL = "https://api.resend.com"

// EmailAttachment is one file carried inside a notification email. Content is
// the base64-encoded file body, per the Resend API contract.
type EmailAttachment struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
	Type     string `json:"content_type,omitempty"`
}

// EmailClient defines the interface for sending notification emails
type EmailClient interface {
	Send(ctx context.Context, to, subject, htmlBody string, attachments []EmailAttachment) error
}

type emailRequest struct {
	From        string            `json:"from"`
	To          []string          `json:"to"`
	Subject     string            `json:"subject"`
	HTML        string            `json:"html"`
	Attachments []EmailAttachment `json:"attachments,omitempty"`
}

// resendClient implements EmailClient against the Resend HTTP API
type resendClient struct {
	baseURL    string
	apiKey     string
	from       string
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

// NewEmailClient creates a Resend-backed email client
func NewEmailClient(apiKey, from string, timeout time.Duration, logger *zap.Logger, m *metrics.Metrics) EmailClient {
	return &resendClient{
		baseURL: defaultResendBaseURL,
		apiKey:  apiKey,
		from:    from,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		metrics: m,
	}
}

// NewEmailClientWithBaseURL creates a client against a custom API endpoint, for tests
func NewEmailClientWithBaseURL(baseURL, apiKey, from string, timeout time.Duration, logger *zap.Logger, m *metrics.Metrics) EmailClient {
	c := NewEmailClient(apiKey, from, timeout, logger, m).(*resendClient)
	c.baseURL = baseURL
	return c
}

// Send posts one email. The caller decides whether a failure is fatal; for
// submission notifications it never is.
func (c *resendClient) Send(ctx context.Context, to, subject, htmlBody string, attachments []EmailAttachment) error {
	url := fmt.Sprintf("%s/emails", c.baseURL)

	body, err := json.Marshal(emailRequest{
		From:        c.from,
		To:          []string{to},
		Subject:     subject,
		HTML:        htmlBody,
		Attachments: attachments,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal email request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(startTime)

	statusCode := 0
	if resp != nil {
		statusCode = resp.StatusCode
	}
	if c.metrics != nil {
		c.metrics.RecordExternalAPICall(url, http.MethodPost, statusCode, duration, err)
	}

	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Warn("Email API returned non-success status",
			zap.Int("status_code", resp.StatusCode),
			zap.String("subject", subject),
			zap.Duration("duration", duration),
		)
		return fmt.Errorf("email API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	c.logger.Info("Email sent",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.Int("attachments", len(attachments)),
		zap.Duration("duration", duration),
	)
	return nil
}

// NoOpEmailClient is used when no email credential is configured
type NoOpEmailClient struct{}

func NewNoOpEmailClient() EmailClient {
	return &NoOpEmailClient{}
}

func (c *NoOpEmailClient) Send(ctx context.Context, to, subject, htmlBody string, attachments []EmailAttachment) error {
	return nil
}
