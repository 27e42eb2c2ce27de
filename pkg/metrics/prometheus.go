package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	RequirementsCreated   prometheus.Counter
	RequirementsConfirmed prometheus.Counter
	RequirementsAssigned  prometheus.Counter
	RequirementsDeleted   prometheus.Counter
	ReturnTripsCreated    prometheus.Counter
	NotificationsSent     prometheus.Counter
	NotificationsFailed   prometheus.Counter
	ErrorsCount           *prometheus.CounterVec
}

// NewMetrics registers and returns the service metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		RequirementsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requirements_created_total",
			Help:      "The total number of requirements created",
		}),
		RequirementsConfirmed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requirements_confirmed_total",
			Help:      "The total number of requirements confirmed",
		}),
		RequirementsAssigned: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requirements_assigned_total",
			Help:      "The total number of requirements assigned",
		}),
		RequirementsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requirements_deleted_total",
			Help:      "The total number of requirements soft-deleted",
		}),
		ReturnTripsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "return_trips_created_total",
			Help:      "The total number of return trip requirements created",
		}),
		NotificationsSent: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_sent_total",
			Help:      "The total number of push notification batches dispatched",
		}),
		NotificationsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_failed_total",
			Help:      "The total number of push notification batches that failed",
		}),
		ErrorsCount: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
	}
}
