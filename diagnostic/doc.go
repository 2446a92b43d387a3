// Package diagnostic classifies failed backend calls and delivers the
// resulting records to pluggable sinks.
//
// Classification is observational only: sinks receive a Record describing
// the failure but can never change whether or what error reaches the caller.
//
// Sinks:
//
//   - LogSink writes records through the zerolog-backed logger.
//   - MetricSink counts records with an OpenTelemetry counter.
//   - Multi fans a record out to several sinks.
//   - Recorder keeps records in memory, mostly for tests.
package diagnostic
