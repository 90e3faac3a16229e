package dispatch

import "fmt"

// Config defines dispatch-related settings.
type Config struct {
	// Scenario is the YAML file loaded when the service starts.
	Scenario string `json:"scenario" yaml:"scenario"`
	// OrderTimeoutMS bounds the wait for the broker to accept an order.
	OrderTimeoutMS int `json:"order_timeout_ms" yaml:"order_timeout_ms"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.OrderTimeoutMS == 0 {
		c.OrderTimeoutMS = 5000
	}
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	if c.OrderTimeoutMS < 0 {
		return fmt.Errorf("order_timeout_ms must not be negative")
	}
	return nil
}
