package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Lifecycle transition counters, exported on /metrics.
var (
	tripsIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dutytrip_trips_issued_total",
		Help: "Trips issued in PENDING state.",
	})

	tripsClaimed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dutytrip_trips_claimed_total",
		Help: "Successful PENDING to ACTIVE transitions.",
	})

	tripsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dutytrip_trips_completed_total",
		Help: "Successful ACTIVE to COMPLETED transitions.",
	})
)
