package diagnostic

import (
	"context"
	"time"
)

// Record describes one classified failure.
type Record struct {
	// Class is the classification label.
	Class Class
	// StatusCode is the HTTP status, or 0 when no response was received.
	StatusCode int
	// Method and Path identify the request that failed.
	Method string
	Path   string
	// Detail is the best available description of the failure: the decoded
	// response payload when there is one, otherwise the error message.
	Detail any
	// Err is the failure as the caller will see it.
	Err error
	// Time is when the record was produced.
	Time time.Time
}

// HasResponse reports whether the failure carried an HTTP response.
func (r Record) HasResponse() bool {
	return r.StatusCode > 0
}

// Sink receives diagnostic records. Implementations must be safe for
// concurrent use and must not block the caller for long.
type Sink interface {
	Emit(ctx context.Context, rec Record)
}

// SinkFunc adapts an ordinary function to the Sink interface.
type SinkFunc func(ctx context.Context, rec Record)

// Emit implements Sink.
func (f SinkFunc) Emit(ctx context.Context, rec Record) {
	f(ctx, rec)
}

// Multi returns a Sink that forwards each record to every non-nil sink in
// order.
func Multi(sinks ...Sink) Sink {
	out := make(multiSink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

type multiSink []Sink

func (m multiSink) Emit(ctx context.Context, rec Record) {
	for _, s := range m {
		s.Emit(ctx, rec)
	}
}

// Discard is a Sink that drops every record.
var Discard Sink = SinkFunc(func(context.Context, Record) {})
