// Package telemetry provides observability for the cytoweave engine:
// structured logging (zerolog), an asynchronous event channel, Prometheus
// metrics, and OpenTelemetry tracing.
//
// The event publisher is the engine's trace channel: the anatomy core emits
// domain events (cycles, reconfigurations, storage rejections, coherence
// warnings) through it instead of printing, and any presentation layer
// subscribes with optional filters. EventPublisher satisfies
// anatomy.EventPublisher directly.
package telemetry
