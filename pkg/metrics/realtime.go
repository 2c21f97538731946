package metrics

import "github.com/prometheus/client_golang/prometheus"

// RealtimeMetrics tracks websocket fan-out.
type RealtimeMetrics struct {
	broadcasts *prometheus.CounterVec
	clients    prometheus.Gauge
	dropped    prometheus.Counter
}

// NewRealtimeMetrics registers the realtime metrics on the provided registerer.
func NewRealtimeMetrics(reg prometheus.Registerer) *RealtimeMetrics {
	if reg == nil {
		return &RealtimeMetrics{}
	}
	broadcasts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "realtime_broadcasts_total",
		Help: "Realtime events broadcast to connected clients.",
	}, []string{"event"})
	clients := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "realtime_connected_clients",
		Help: "Websocket clients currently connected.",
	})
	dropped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "realtime_dropped_clients_total",
		Help: "Clients disconnected because their send queue was full.",
	})
	reg.MustRegister(broadcasts, clients, dropped)
	return &RealtimeMetrics{
		broadcasts: broadcasts,
		clients:    clients,
		dropped:    dropped,
	}
}

// IncBroadcast records one broadcast of the named event.
func (r *RealtimeMetrics) IncBroadcast(event string) {
	if r == nil || r.broadcasts == nil {
		return
	}
	r.broadcasts.WithLabelValues(normalizeLabel(event)).Inc()
}

// SetClients reports the current connection count.
func (r *RealtimeMetrics) SetClients(n int) {
	if r == nil || r.clients == nil {
		return
	}
	r.clients.Set(float64(n))
}

// IncDropped records a slow client being disconnected.
func (r *RealtimeMetrics) IncDropped() {
	if r == nil || r.dropped == nil {
		return
	}
	r.dropped.Inc()
}
