package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Loan metrics
	LoansOriginated   *prometheus.CounterVec
	LoanAmount        prometheus.Histogram
	SchedulesImported prometheus.Counter

	// Schedule metrics
	ScheduleRowsGenerated *prometheus.CounterVec
	RoundingDiscrepancies prometheus.Counter
	Recalculations        *prometheus.CounterVec
	RowsMarkedLate        prometheus.Counter
	ScheduleViolations    *prometheus.CounterVec

	// Payment metrics
	PaymentsRegistered *prometheus.CounterVec
	PaymentDuration    prometheus.Histogram
	PaymentAmount      prometheus.Histogram
	PaymentErrors      *prometheus.CounterVec

	// Outbox metrics
	EventsPublished *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBRetries prometheus.Counter

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates all metrics and registers them with reg. A nil reg uses the
// default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		// Loan metrics
		LoansOriginated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goloan_loans_originated_total",
				Help: "Total number of loans originated by product",
			},
			[]string{"product"},
		),
		LoanAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "goloan_loan_amount",
			Help:    "Originated loan principal",
			Buckets: []float64{100, 1000, 5000, 10000, 50000, 100000, 1000000},
		}),
		SchedulesImported: factory.NewCounter(prometheus.CounterOpts{
			Name: "goloan_schedules_imported_total",
			Help: "Total number of bulk schedule imports",
		}),

		// Schedule metrics
		ScheduleRowsGenerated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goloan_schedule_rows_generated_total",
				Help: "Total schedule rows generated by product",
			},
			[]string{"product"},
		),
		RoundingDiscrepancies: factory.NewCounter(prometheus.CounterOpts{
			Name: "goloan_rounding_discrepancies_total",
			Help: "Amortization schedules whose totals drift more than one cent from payment * N",
		}),
		Recalculations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goloan_schedule_recalculations_total",
				Help: "Total schedule recalculations by outcome",
			},
			[]string{"outcome"},
		),
		RowsMarkedLate: factory.NewCounter(prometheus.CounterOpts{
			Name: "goloan_rows_marked_late_total",
			Help: "Total schedule rows flipped to late by the overdue sweep",
		}),
		ScheduleViolations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goloan_schedule_violations_total",
				Help: "Schedule invariant violations found by audits",
			},
			[]string{"rule"},
		),

		// Payment metrics
		PaymentsRegistered: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goloan_payments_registered_total",
				Help: "Total number of payments registered by product",
			},
			[]string{"product"},
		),
		PaymentDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "goloan_payment_duration_seconds",
			Help:    "Duration of payment registration",
			Buckets: prometheus.DefBuckets,
		}),
		PaymentAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "goloan_payment_amount",
			Help:    "Registered payment totals",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000},
		}),
		PaymentErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goloan_payment_errors_total",
				Help: "Total number of payment errors by type",
			},
			[]string{"error_type"},
		),

		// Outbox metrics
		EventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goloan_events_published_total",
				Help: "Total outbox events published by type and status",
			},
			[]string{"event_type", "status"},
		),

		// API metrics
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goloan_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "goloan_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Database metrics
		DBRetries: factory.NewCounter(prometheus.CounterOpts{
			Name: "goloan_db_retries_total",
			Help: "Transactions retried after a serialization failure or deadlock",
		}),

		// Rate limiting metrics
		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goloan_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),
	}
}
