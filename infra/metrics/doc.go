// Package metrics provides the Prometheus and InfluxDB implementations of
// the core metrics sinks, the event bus collector and the /metrics server.
// Importing it registers the "nop", "prometheus" and "influx" sink types.
package metrics
