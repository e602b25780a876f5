package bridge

import "github.com/prometheus/client_golang/prometheus"

var (
	parsedEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "onvif_events_parsed_total",
		Help: "Notifications successfully parsed into events, by topic.",
	}, []string{"topic"})

	unparsableEvents = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "onvif_events_unparsable_total",
		Help: "Notifications a parser rejected as malformed.",
	})

	unknownTopics = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "onvif_events_unknown_topic_total",
		Help: "Notifications with no registered parser.",
	})
)

func init() {
	prometheus.MustRegister(parsedEvents, unparsableEvents, unknownTopics)
}
