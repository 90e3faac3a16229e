package dispatch

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	zonesProcessed *prometheus.CounterVec
	routeDistance  prometheus.Histogram
	passDuration   prometheus.Histogram
	orderSuccess   prometheus.Counter
	orderFailure   prometheus.Counter
)

// newCollectors creates new metric collectors.
func newCollectors() (*prometheus.CounterVec, prometheus.Histogram, prometheus.Histogram, prometheus.Counter, prometheus.Counter) {
	zones := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rescue_zones_processed_total",
			Help: "Number of zones processed by outcome",
		},
		[]string{"outcome"},
	)
	dist := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rescue_route_distance",
			Help:    "Travel distance of dispatched routes",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
	)
	dur := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rescue_pass_duration_seconds",
			Help:    "Duration of a dispatch pass",
			Buckets: prometheus.DefBuckets,
		},
	)
	suc := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rescue_order_publish_success_total",
			Help: "Number of successful order publish operations",
		},
	)
	fail := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rescue_order_publish_failure_total",
			Help: "Number of failed order publish operations",
		},
	)
	return zones, dist, dur, suc, fail
}

func init() {
	zonesProcessed, routeDistance, passDuration, orderSuccess, orderFailure = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers dispatch metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(zonesProcessed, routeDistance, passDuration, orderSuccess, orderFailure)
}

// ResetMetrics reinitializes metrics collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	zonesProcessed, routeDistance, passDuration, orderSuccess, orderFailure = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
