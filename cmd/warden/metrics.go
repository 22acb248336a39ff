package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var eventsProcessedCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "warden_daemon_events_received",
	Help: "Number of gateway events received, by event type",
}, []string{"type"})

var currentSeq = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "warden_daemon_current_seq",
	Help: "Current gateway sequence number",
})
