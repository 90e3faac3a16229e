package metrics

import "github.com/kilianp07/rescue/core/factory"

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks" yaml:"sinks"`
	// PrometheusPort is the listen address of the /metrics endpoint. Empty
	// disables the HTTP server.
	PrometheusPort string `json:"prometheus_port" yaml:"prometheus_port"`
	// APIToken protects the HTTP API served next to /metrics.
	APIToken string `json:"api_token" yaml:"api_token"`
}
