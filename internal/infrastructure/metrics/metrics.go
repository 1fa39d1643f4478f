package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics defines our Prometheus metrics
type Metrics struct {
	ActiveConnections prometheus.Gauge
	ActiveRooms       prometheus.Gauge
	EventsRelayed     *prometheus.CounterVec
	EventsDropped     *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ActiveConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name: "classpulse_relay_connections",
			Help: "Number of open websocket connections.",
		}),
		ActiveRooms: factory.NewGauge(prometheus.GaugeOpts{
			Name: "classpulse_relay_rooms",
			Help: "Number of rooms with at least one connected peer.",
		}),
		EventsRelayed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "classpulse_relay_events_total",
			Help: "Events fanned out to room peers, by envelope type.",
		}, []string{"type"}),
		EventsDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "classpulse_relay_events_dropped_total",
			Help: "Inbound events the relay refused to fan out.",
		}, []string{"reason"}),
	}
}
