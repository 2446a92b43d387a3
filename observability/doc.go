// Package observability wires OpenTelemetry tracing and metrics for the
// backend client.
//
// Setup installs OTLP/HTTP exporters as the global providers. Without it the
// OpenTelemetry no-op providers are used and spans and instruments cost
// nothing.
//
//	shutdown, err := observability.Setup(ctx, "backendprobe", version.Version, cfg)
//	defer shutdown(ctx)
package observability
