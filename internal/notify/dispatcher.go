// internal/notify/dispatcher.go
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	stderrors "lease-concierge/internal/common/errors"
	"lease-concierge/internal/common/logger"
	"lease-concierge/internal/common/metrics"
	"lease-concierge/internal/models"
)

// Message is one rendered email ready for a transport.
type Message struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Transport delivers a rendered message. Implementations must honor the
// context deadline.
type Transport interface {
	Send(ctx context.Context, msg Message) error
	Name() string
}

// Dispatcher sends confirmation emails with bounded retries and exponential
// backoff. Delivery failure is reported to the caller but never unwinds the
// booking that triggered it.
type Dispatcher struct {
	transport   Transport
	renderer    *Renderer
	logger      logger.Logger
	maxAttempts int
	baseDelay   time.Duration
	maxDelay    time.Duration
	sendTimeout time.Duration

	// sleep is swapped in tests for a recording stub.
	sleep func(ctx context.Context, d time.Duration) error
}

// DispatcherOptions configures retry behavior.
type DispatcherOptions struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	SendTimeout time.Duration
}

func NewDispatcher(transport Transport, renderer *Renderer, log logger.Logger, opts DispatcherOptions) *Dispatcher {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = 2 * time.Second
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = 30 * time.Second
	}
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = 30 * time.Second
	}
	return &Dispatcher{
		transport:   transport,
		renderer:    renderer,
		logger:      log,
		maxAttempts: opts.MaxAttempts,
		baseDelay:   opts.BaseDelay,
		maxDelay:    opts.MaxDelay,
		sendTimeout: opts.SendTimeout,
		sleep:       sleepCtx,
	}
}

// DispatchConfirmation renders and sends the tour confirmation. Returns a
// retryable StandardError once every attempt has failed.
func (d *Dispatcher) DispatchConfirmation(ctx context.Context, conf *models.ConfirmationRecord) error {
	msg := Message{
		To:       conf.ProspectEmail,
		Subject:  d.renderer.Subject(conf),
		TextBody: d.renderer.TextBody(conf),
		HTMLBody: d.renderer.HTMLBody(conf),
	}

	log := d.logger.WithFields(map[string]interface{}{
		"recipient": conf.ProspectEmail,
		"units":     unitIDs(conf.Units),
		"provider":  d.transport.Name(),
	})

	delay := d.baseDelay
	attempts := 0
	var lastErr error

	for attempt := 1; attempt <= d.maxAttempts; attempt++ {
		attempts = attempt
		log.Info("sending confirmation email", map[string]interface{}{
			"attempt": attempt,
			"max":     d.maxAttempts,
		})

		sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
		err := d.transport.Send(sendCtx, msg)
		cancel()

		if err == nil {
			metrics.NotificationAttempts.WithLabelValues("success").Inc()
			log.Info("confirmation email sent", map[string]interface{}{
				"attempt": attempt,
			})
			return nil
		}

		lastErr = err
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			// The attempt hit its own send timeout, not the caller's deadline.
			lastErr = stderrors.NewNotificationTimeoutError()
		}
		metrics.NotificationAttempts.WithLabelValues("failure").Inc()
		log.WithError(err).Warn("confirmation email attempt failed", map[string]interface{}{
			"attempt": attempt,
		})

		if ctx.Err() != nil {
			break
		}
		if attempt < d.maxAttempts {
			if err := d.sleep(ctx, delay); err != nil {
				break
			}
			delay *= 2
			if delay > d.maxDelay {
				delay = d.maxDelay
			}
		}
	}

	log.WithError(lastErr).Error("all confirmation email attempts failed", map[string]interface{}{
		"attempts": attempts,
	})
	return stderrors.NewNotificationSendFailedError(
		fmt.Errorf("failed to send confirmation to %s after %d attempt(s): %w", conf.ProspectEmail, attempts, lastErr),
	)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
