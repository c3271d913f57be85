package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AvailabilityChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "availability_checks_total",
			Help: "Total availability checks by outcome",
		},
		[]string{"outcome"},
	)

	AvailabilityCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "availability_cache_hits_total",
			Help: "Availability checks served from the in-memory cache",
		},
	)

	AvailabilityCheckDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "availability_check_duration_seconds",
			Help:    "Duration of uncached availability checks",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
	)

	ReservationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reservations_created_total",
			Help: "Reservation creation attempts by result",
		},
		[]string{"result"},
	)

	ReservationTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reservation_transitions_total",
			Help: "Reservation status transitions",
		},
		[]string{"from", "to"},
	)

	ScheduleDerivations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "schedule_derivations_total",
			Help: "Auto schedule derivation runs by outcome",
		},
		[]string{"type", "outcome"},
	)

	SlotLockContention = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "slot_lock_contention_total",
			Help: "Reservation attempts that failed to acquire the slot lock",
		},
	)
)

// NewTimer returns a prometheus timer for the given histogram.
func NewTimer(h prometheus.Histogram) *prometheus.Timer {
	return prometheus.NewTimer(h)
}
