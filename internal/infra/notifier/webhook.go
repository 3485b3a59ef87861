package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"deptsite/internal/domain/entity"
	"deptsite/internal/resilience/circuitbreaker"
)

// WebhookConfig contains the settings for the contact notification webhook.
type WebhookConfig struct {
	// URL is the webhook endpoint. Empty disables the notifier; use
	// NoOpNotifier instead.
	URL string

	// Timeout bounds each webhook HTTP call.
	Timeout time.Duration
}

const (
	// maxExcerptLength bounds the message excerpt carried in the payload.
	// The full message lives in the database; the webhook only needs
	// enough to triage.
	maxExcerptLength = 200

	excerptSuffix = "..."

	defaultWebhookTimeout = 10 * time.Second
)

// WebhookNotifier posts a JSON payload to a webhook for each new contact
// submission. Outbound traffic is throttled to 1 request per second with a
// small burst, and sustained failures trip a circuit breaker so a dead
// endpoint stops consuming request time.
type WebhookNotifier struct {
	config     WebhookConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *circuitbreaker.CircuitBreaker
	logger     *slog.Logger
}

// NewWebhookNotifier creates a WebhookNotifier for the given endpoint.
func NewWebhookNotifier(config WebhookConfig, logger *slog.Logger) *WebhookNotifier {
	if config.Timeout <= 0 {
		config.Timeout = defaultWebhookTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &WebhookNotifier{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(1), 3),
		breaker:    circuitbreaker.New(circuitbreaker.WebhookConfig()),
		logger:     logger,
	}
}

// webhookPayload is the JSON body posted to the webhook.
type webhookPayload struct {
	Event       string `json:"event"`
	ID          string `json:"id"`
	Name        string `json:"name"`
	Subject     string `json:"subject"`
	Excerpt     string `json:"excerpt"`
	SubmittedAt string `json:"submittedAt"`
}

// buildPayload converts a submission into the webhook body. The message is
// truncated to an excerpt and the sender's email is deliberately left out
// of outbound traffic.
func (n *WebhookNotifier) buildPayload(sub *entity.ContactSubmission) webhookPayload {
	excerpt := sub.Message
	if len(excerpt) > maxExcerptLength {
		// Cut on a rune boundary; messages are often Arabic and a byte
		// cut would corrupt the final character.
		cut := maxExcerptLength - len(excerptSuffix)
		for cut > 0 && !utf8.RuneStart(excerpt[cut]) {
			cut--
		}
		excerpt = excerpt[:cut] + excerptSuffix
	}
	return webhookPayload{
		Event:       "contact.submitted",
		ID:          sub.ID,
		Name:        sub.Name,
		Subject:     sub.Subject,
		Excerpt:     excerpt,
		SubmittedAt: sub.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// NotifyContact posts the submission to the webhook. It waits for the
// outbound throttle, then sends with one retry for transient failures.
// The notification runs detached from the originating request, so the
// retry delay never holds up a client response; request-path collaborators
// get no such retry.
func (n *WebhookNotifier) NotifyContact(ctx context.Context, sub *entity.ContactSubmission) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("notification throttle: %w", err)
	}
	return n.sendWithRetry(ctx, sub)
}

func (n *WebhookNotifier) sendWithRetry(ctx context.Context, sub *entity.ContactSubmission) error {
	const (
		maxAttempts = 2
		baseDelay   = 5 * time.Second
	)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := n.send(ctx, sub)
		if err == nil {
			n.logger.Info("contact notification sent",
				slog.String("submission_id", sub.ID),
				slog.Int("attempt", attempt))
			return nil
		}
		lastErr = err

		if errors.Is(err, gobreaker.ErrOpenState) {
			n.logger.Warn("notification webhook circuit breaker open, skipping",
				slog.String("submission_id", sub.ID))
			return fmt.Errorf("webhook unavailable: %w", err)
		}

		var rateLimitErr *RateLimitError
		if errors.As(err, &rateLimitErr) {
			n.logger.Warn("webhook rate limit hit, backing off",
				slog.String("submission_id", sub.ID),
				slog.Duration("retry_after", rateLimitErr.RetryAfter),
				slog.Int("attempt", attempt))
			select {
			case <-time.After(rateLimitErr.RetryAfter):
				continue
			case <-ctx.Done():
				return fmt.Errorf("canceled during rate limit backoff: %w", ctx.Err())
			}
		}

		if !isRetryable(err) {
			n.logger.Error("contact notification failed, not retrying",
				slog.String("submission_id", sub.ID),
				slog.Any("error", err))
			return err
		}

		if attempt < maxAttempts {
			delay := baseDelay * time.Duration(attempt)
			n.logger.Warn("contact notification failed, retrying",
				slog.String("submission_id", sub.ID),
				slog.Any("error", err),
				slog.Int("attempt", attempt),
				slog.Duration("delay", delay))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return fmt.Errorf("canceled during retry backoff: %w", ctx.Err())
			}
		}
	}

	n.logger.Error("contact notification failed after all attempts",
		slog.String("submission_id", sub.ID),
		slog.Any("error", lastErr))
	return fmt.Errorf("webhook notification failed after %d attempts: %w", maxAttempts, lastErr)
}

// send performs one webhook call through the circuit breaker.
func (n *WebhookNotifier) send(ctx context.Context, sub *entity.ContactSubmission) error {
	body, err := json.Marshal(n.buildPayload(sub))
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	_, err = n.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.config.URL, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("create webhook request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := n.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("execute webhook request: %w", err)
		}
		defer func() { _ = resp.Body.Close() }()

		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return nil, nil
		case resp.StatusCode == http.StatusTooManyRequests:
			return nil, &RateLimitError{
				RetryAfter: retryAfterFrom(resp, 5*time.Second),
			}
		case resp.StatusCode >= 400 && resp.StatusCode < 500:
			return nil, &ClientError{
				StatusCode: resp.StatusCode,
				Message:    fmt.Sprintf("webhook client error %d: %s", resp.StatusCode, string(respBody)),
			}
		default:
			return nil, &ServerError{
				StatusCode: resp.StatusCode,
				Message:    fmt.Sprintf("webhook server error %d: %s", resp.StatusCode, string(respBody)),
			}
		}
	})
	return err
}
