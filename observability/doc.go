// Package observability wires OpenTelemetry tracing and metrics.
//
// Exporters use OTLP over HTTP and are only started when enabled in
// configuration. With exporters disabled the global no-op providers stay
// in place, so spans and instruments cost nothing.
//
// TurnMetrics holds the instruments the speech-turn pipeline records:
// turn outcomes, per-stage latency, deferred audio jobs and synthesis
// failures.
package observability
