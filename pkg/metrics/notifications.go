package metrics

import (
	"github.com/hotelops/reclamations-backend/pkg/enums"
	"github.com/prometheus/client_golang/prometheus"
)

// NotificationMetrics counts outbound notification attempts per channel and outcome.
type NotificationMetrics struct {
	sent *prometheus.CounterVec
}

// NewNotificationMetrics registers the notification counters on the provided registerer.
func NewNotificationMetrics(reg prometheus.Registerer) *NotificationMetrics {
	if reg == nil {
		return &NotificationMetrics{}
	}
	sent := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_sent_total",
		Help: "Outbound notification attempts by channel and outcome.",
	}, []string{"channel", "outcome"})
	reg.MustRegister(sent)
	return &NotificationMetrics{sent: sent}
}

// Observe increments the counter for the channel/outcome pair.
func (n *NotificationMetrics) Observe(channel enums.NotificationChannel, outcome enums.NotificationOutcome) {
	if n == nil || n.sent == nil {
		return
	}
	n.sent.WithLabelValues(normalizeLabel(string(channel)), normalizeLabel(string(outcome))).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
