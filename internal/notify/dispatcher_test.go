// internal/notify/dispatcher_test.go
package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "lease-concierge/internal/common/errors"
	"lease-concierge/internal/common/logger"
	"lease-concierge/internal/models"
)

type fakeTransport struct {
	calls    int
	failures int
	sent     []Message
}

func (f *fakeTransport) Name() string { return "fake" }

func (f *fakeTransport) Send(ctx context.Context, msg Message) error {
	f.calls++
	if f.calls <= f.failures {
		return errors.New("connection refused")
	}
	f.sent = append(f.sent, msg)
	return nil
}

func testRenderer() *Renderer {
	return &Renderer{
		PropertyName:    "Luxury Apartments at Main Street",
		PropertyAddress: "123 Main St, Anytown, ST 12345",
		OfficePhone:     "(555) 123-4567",
		FromEmail:       "leasing@example.com",
	}
}

func testConfirmation() *models.ConfirmationRecord {
	return &models.ConfirmationRecord{
		ProspectName:  "Jane Doe",
		ProspectEmail: "jane@example.com",
		Units: []models.BookedUnit{
			{UnitID: "A101", Beds: 1, Baths: 1.0, Sqft: 650, Rent: 1800, ConfirmationNumber: "CONF-A101AA"},
		},
		PropertyAddress:          "123 Main St, Anytown, ST 12345",
		TourDate:                 "Tuesday, September 01, 2026",
		TourTime:                 "2:00 PM",
		MasterConfirmationNumber: "CONF-MASTER",
		CreatedAt:                time.Now(),
	}
}

func newTestDispatcher(transport Transport) (*Dispatcher, *[]time.Duration) {
	d := NewDispatcher(transport, testRenderer(), logger.NewNoOpLogger(), DispatcherOptions{
		MaxAttempts: 3,
		BaseDelay:   2 * time.Second,
		MaxDelay:    30 * time.Second,
		SendTimeout: time.Second,
	})
	var delays []time.Duration
	d.sleep = func(ctx context.Context, dur time.Duration) error {
		delays = append(delays, dur)
		return nil
	}
	return d, &delays
}

func TestDispatcher_SucceedsFirstAttempt(t *testing.T) {
	transport := &fakeTransport{}
	d, delays := newTestDispatcher(transport)

	err := d.DispatchConfirmation(context.Background(), testConfirmation())

	require.NoError(t, err)
	assert.Equal(t, 1, transport.calls)
	assert.Empty(t, *delays)

	require.Len(t, transport.sent, 1)
	msg := transport.sent[0]
	assert.Equal(t, "jane@example.com", msg.To)
	assert.Equal(t, "Tour Confirmation - A101", msg.Subject)
	assert.Contains(t, msg.TextBody, "Dear Jane Doe")
}

func TestDispatcher_RetriesWithBackoff(t *testing.T) {
	transport := &fakeTransport{failures: 2}
	d, delays := newTestDispatcher(transport)

	err := d.DispatchConfirmation(context.Background(), testConfirmation())

	require.NoError(t, err)
	assert.Equal(t, 3, transport.calls)
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, *delays)
}

func TestDispatcher_GivesUpAfterMaxAttempts(t *testing.T) {
	transport := &fakeTransport{failures: 10}
	d, _ := newTestDispatcher(transport)

	err := d.DispatchConfirmation(context.Background(), testConfirmation())

	require.Error(t, err)
	assert.Equal(t, 3, transport.calls)

	var stdErr *stderrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, stderrors.ErrCodeNotificationSendFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}

func TestDispatcher_StopsOnCancelledContext(t *testing.T) {
	transport := &fakeTransport{failures: 10}
	d, _ := newTestDispatcher(transport)
	d.sleep = func(ctx context.Context, dur time.Duration) error {
		return context.Canceled
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := d.DispatchConfirmation(ctx, testConfirmation())

	require.Error(t, err)
	assert.Equal(t, 1, transport.calls)

	// The error reports how many attempts actually ran, not the configured max.
	var stdErr *stderrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Contains(t, stdErr.Details, "after 1 attempt(s)")
}

type stallingTransport struct {
	calls int
}

func (s *stallingTransport) Name() string { return "fake" }

func (s *stallingTransport) Send(ctx context.Context, msg Message) error {
	s.calls++
	<-ctx.Done()
	return ctx.Err()
}

func TestDispatcher_ReportsAttemptTimeout(t *testing.T) {
	transport := &stallingTransport{}
	d := NewDispatcher(transport, testRenderer(), logger.NewNoOpLogger(), DispatcherOptions{
		MaxAttempts: 1,
		BaseDelay:   time.Millisecond,
		MaxDelay:    time.Millisecond,
		SendTimeout: 5 * time.Millisecond,
	})

	err := d.DispatchConfirmation(context.Background(), testConfirmation())

	require.Error(t, err)
	assert.Equal(t, 1, transport.calls)

	var stdErr *stderrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, stderrors.ErrCodeNotificationSendFailed, stdErr.Code)
	assert.Contains(t, stdErr.Details, string(stderrors.ErrCodeNotificationTimeout))
}

func TestDispatcher_BackoffCappedAtMaxDelay(t *testing.T) {
	transport := &fakeTransport{failures: 4}
	d := NewDispatcher(transport, testRenderer(), logger.NewNoOpLogger(), DispatcherOptions{
		MaxAttempts: 5,
		BaseDelay:   10 * time.Second,
		MaxDelay:    15 * time.Second,
		SendTimeout: time.Second,
	})
	var delays []time.Duration
	d.sleep = func(ctx context.Context, dur time.Duration) error {
		delays = append(delays, dur)
		return nil
	}

	err := d.DispatchConfirmation(context.Background(), testConfirmation())

	require.NoError(t, err)
	assert.Equal(t, []time.Duration{10 * time.Second, 15 * time.Second, 15 * time.Second, 15 * time.Second}, delays)
}
