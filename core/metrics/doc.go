// Package metrics defines interfaces for recording dispatch outcomes.
// Sinks like PromSink and InfluxSink (infra/metrics) record zone outcomes,
// pass totals and fleet snapshots and can be combined with NewMultiSink.
// The factory helpers return a MultiSink automatically when multiple
// sinks are configured.
package metrics
