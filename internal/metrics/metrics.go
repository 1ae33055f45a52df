package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EvaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scada_evaluations_total",
			Help: "Total number of per-device evaluation passes",
		},
		[]string{"status"}, // status: ok, fetch_failed
	)

	PropertiesEvaluated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scada_properties_evaluated_total",
			Help: "Total number of property readings evaluated against thresholds",
		},
	)

	ActiveAlerts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "scada_active_alerts",
			Help: "Number of properties in alert as of the last evaluation pass",
		},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scada_notifications_total",
			Help: "Total number of notification attempts",
		},
		[]string{"status"}, // status: sent, failed
	)
)
