package relayserver

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	requests  *prometheus.CounterVec
	directs   prometheus.Counter
	groupMsgs prometheus.Counter
	rotations prometheus.Counter
	waiting   prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "relay_requests_total",
			Help: "HTTP requests handled, by route and status class.",
		}, []string{"route", "status"}),
		directs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "relay_direct_messages_total",
			Help: "Direct message envelopes accepted.",
		}),
		groupMsgs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "relay_group_messages_total",
			Help: "Group message envelopes accepted.",
		}),
		rotations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "relay_group_rotations_total",
			Help: "Group key distributions replaced.",
		}),
		waiting: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "relay_event_polls_waiting",
			Help: "Long-poll requests currently parked.",
		}),
	}
	reg.MustRegister(m.requests, m.directs, m.groupMsgs, m.rotations, m.waiting)
	return m
}
