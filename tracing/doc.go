// Package tracing wraps OpenTelemetry so that the coordinator can record
// spans around spawning, dispatching and resolving jobs. Spans are no-ops
// until Init or InitWithExporter installs a provider.
package tracing
