// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TurnsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "concierge_turns_processed_total",
			Help: "Total number of conversation turns processed",
		},
		[]string{"state"},
	)

	TurnDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "concierge_turn_duration_seconds",
			Help: "Duration of turn handling in seconds",
		},
	)

	FieldsExtracted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "concierge_fields_extracted_total",
			Help: "Total number of prospect fields extracted from utterances",
		},
		[]string{"field"},
	)

	BookingsConfirmed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "concierge_bookings_confirmed_total",
			Help: "Total number of bookings confirmed",
		},
	)

	ReservationConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "concierge_reservation_conflicts_total",
			Help: "Total number of reservation attempts lost to another session",
		},
	)

	NotificationAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "concierge_notification_attempts_total",
			Help: "Total number of notification send attempts",
		},
		[]string{"outcome"},
	)

	ResponderFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "concierge_responder_fallbacks_total",
			Help: "Total number of turns answered with deterministic fallback text",
		},
	)
)
