// Package instrumentation records OpenTelemetry metrics for model calls
// and tool dispatches. In a foreground CLI there is nothing to scrape,
// so metrics are exported through the stdout exporter on shutdown (or
// periodically for long sessions) and can be disabled entirely.
package instrumentation
