// Package mailer is the client for the hosted email relay. The relay is
// a single JSON POST endpoint; everything sent through it is best-effort
// from the caller's point of view, so the client bounds every attempt
// with a timeout and a small retry budget.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/rfconstrucoes/obra/internal/config"
)

// ErrRelayRejected is returned when the relay answers but reports failure.
var ErrRelayRejected = errors.New("email relay rejected the message")

// Notification is one message for the relay. ReplyTo is the visitor's
// address when the message originates from a contact form.
type Notification struct {
	AccessKey string
	Subject   string
	Message   string
	ReplyTo   string
}

// relayPayload is the wire shape the relay accepts.
type relayPayload struct {
	AccessKey string `json:"access_key"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
	FromName  string `json:"from_name"`
	Email     string `json:"email,omitempty"`
}

type relayResponse struct {
	Success bool `json:"success"`
}

// Sender sends a notification through the relay.
type Sender interface {
	Send(ctx context.Context, n Notification) error
}

// Client posts notifications to the relay endpoint.
type Client struct {
	endpoint   string
	fromName   string
	http       *http.Client
	maxRetries uint64
}

// Compile-time interface check
var _ Sender = (*Client)(nil)

// New creates a relay client from configuration.
func New(cfg config.MailConfig) *Client {
	timeout := time.Duration(cfg.Timeout)
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &Client{
		endpoint:   cfg.Endpoint,
		fromName:   cfg.FromName,
		http:       &http.Client{Timeout: timeout},
		maxRetries: uint64(maxRetries),
	}
}

// Send posts the notification, retrying transient failures with
// exponential backoff. It returns once the relay confirms success or
// the retry budget is spent.
func (c *Client) Send(ctx context.Context, n Notification) error {
	if n.AccessKey == "" {
		return errors.New("relay access key not configured")
	}

	body, err := json.Marshal(relayPayload{
		AccessKey: n.AccessKey,
		Subject:   n.Subject,
		Message:   n.Message,
		FromName:  c.fromName,
		Email:     n.ReplyTo,
	})
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	backoff := retry.WithMaxRetries(c.maxRetries, retry.NewExponential(500*time.Millisecond))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		return c.post(ctx, body)
	})
}

// post performs one relay attempt. Network errors and 5xx answers are
// retryable; a definitive rejection is not.
func (c *Client) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return retry.RetryableError(fmt.Errorf("post to relay: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return retry.RetryableError(fmt.Errorf("relay returned status %d", resp.StatusCode))
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("relay returned status %d", resp.StatusCode)
	}

	var result relayResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode relay response: %w", err)
	}
	if !result.Success {
		return ErrRelayRejected
	}

	return nil
}
