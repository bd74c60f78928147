// Package otel provides OpenTelemetry metric exporter bindings for goGuard counters and
// histograms.
//
// [NewOTelExporter] registers an Int64ObservableCounter for each goGuard counter, an
// Int64ObservableGauge per histogram bucket, and one rule-outcome counter carrying
// rule and outcome attributes. A single callback reads [goGuard.Monitor.MetricsSnapshot]
// on each collection cycle.
//
// # What this package must NOT do
//
//   - Own the OTel MeterProvider. Callers supply the Meter.
//   - Mutate Monitor state.
package otel
