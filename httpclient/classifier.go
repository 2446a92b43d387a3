package httpclient

import (
	"context"
	"errors"
	"time"

	"github.com/kbukum/backendclient/diagnostic"
)

// ResponseClassifier returns the response interceptor that reports every
// failure to sink and hands the same error value back unchanged.
func ResponseClassifier(sink diagnostic.Sink) ResponseInterceptor {
	return func(ctx context.Context, req *Request, err error) error {
		sink.Emit(ctx, NewRecord(req, err))
		return err
	}
}

// NewRecord builds the diagnostic record for a failed request. The detail is
// the response payload when the backend sent one, else the error message.
func NewRecord(req *Request, err error) diagnostic.Record {
	rec := diagnostic.Record{Err: err, Time: time.Now()}
	if req != nil {
		rec.Method = req.Method
		rec.Path = req.Path
	}

	var e *Error
	if errors.As(err, &e) && e.HasResponse() {
		rec.StatusCode = e.StatusCode
		rec.Detail = e.Payload()
	}
	if rec.Detail == nil && err != nil {
		rec.Detail = err.Error()
	}

	rec.Class = diagnostic.Classify(rec.StatusCode)
	return rec
}
