// Package prometheus renders goGuard metrics in Prometheus text exposition format.
//
// [NewPrometheusExporter] accepts a [goGuard.Monitor] and exposes an [http.Handler].
// Counter names are prefixed goguard_*_total; the single histogram is
// goguard_validate_latency_seconds, and per-rule outcomes are labelled samples of
// goguard_rule_outcomes_total.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry. Callers mount the Handler.
//   - Mutate Monitor state.
package prometheus
