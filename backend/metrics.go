package backend

import "github.com/prometheus/client_golang/prometheus"

var (
	sessionCount = prometheus.NewGauge(prometheus.GaugeOpts{
		Name:      "live_sessions",
		Subsystem: "gateway",
		Help:      "Number of connected sessions.",
	})

	roomCount = prometheus.NewGauge(prometheus.GaugeOpts{
		Name:      "rooms",
		Subsystem: "directory",
		Help:      "Number of rooms currently held by the directory.",
	})

	packetCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:      "packets_total",
		Subsystem: "gateway",
		Help:      "Inbound packets handled, labelled by type.",
	}, []string{"type"})

	broadcastCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:      "broadcasts_total",
		Subsystem: "relay",
		Help:      "Broadcast deliveries enqueued, labelled by event type.",
	}, []string{"type"})

	droppedCount = prometheus.NewCounter(prometheus.CounterOpts{
		Name:      "dropped_deliveries_total",
		Subsystem: "relay",
		Help:      "Deliveries abandoned because a recipient's queue was full.",
	})

	errorCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:      "errors_total",
		Subsystem: "gateway",
		Help:      "Command failures reported to clients, labelled by type.",
	}, []string{"type"})
)

func init() {
	prometheus.MustRegister(sessionCount)
	prometheus.MustRegister(roomCount)
	prometheus.MustRegister(packetCount)
	prometheus.MustRegister(broadcastCount)
	prometheus.MustRegister(droppedCount)
	prometheus.MustRegister(errorCount)
}
