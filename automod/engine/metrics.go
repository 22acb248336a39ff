package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var eventProcessCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "warden_event_processed",
	Help: "Number of events processed",
}, []string{"type"})

var eventErrorCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "warden_event_errors",
	Help: "Number of events which failed processing",
}, []string{"type"})

var eventActorUnresolvedCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "warden_event_actor_unresolved",
	Help: "Number of structural events dropped because no actor could be resolved",
}, []string{"type"})

var verdictCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "warden_verdicts_applied",
	Help: "Number of enforcement verdicts applied",
}, []string{"kind"})

var actionFailureCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "warden_action_failures",
	Help: "Number of enforcement actions which failed against the platform API",
}, []string{"action"})

var memberMetaFetches = promauto.NewCounter(prometheus.CounterOpts{
	Name: "warden_member_meta_fetches",
	Help: "Number of member metadata reads (API calls)",
})
