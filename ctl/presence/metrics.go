package presence

import "github.com/prometheus/client_golang/prometheus"

var (
	openSessionCount = prometheus.NewGauge(prometheus.GaugeOpts{
		Name:      "open_sessions",
		Subsystem: "presence",
		Help:      "Number of session log entries without a recorded part.",
	})

	openSessionCountPerRoom = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name:      "open_sessions_per_room",
		Subsystem: "presence",
		Help:      "Number of open session log entries, labelled by room.",
	}, []string{"room"})

	liveRoomCount = prometheus.NewGauge(prometheus.GaugeOpts{
		Name:      "live_rooms",
		Subsystem: "presence",
		Help:      "Number of rooms not yet reclaimed.",
	})

	uniqueUserCount = prometheus.NewGauge(prometheus.GaugeOpts{
		Name:      "unique_users",
		Subsystem: "presence",
		Help:      "Number of distinct users with an open session.",
	})
)

func init() {
	prometheus.MustRegister(openSessionCount)
	prometheus.MustRegister(openSessionCountPerRoom)
	prometheus.MustRegister(liveRoomCount)
	prometheus.MustRegister(uniqueUserCount)
}
