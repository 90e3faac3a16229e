// Package infra holds the adapters around the dispatch core: loggers,
// the MQTT order publisher, metrics sinks and the Sentry monitor. They
// implement interfaces declared under core and are wired by app.
package infra
