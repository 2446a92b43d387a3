package diagnostic

import (
	"context"

	"github.com/kbukum/backendclient/logger"
)

var classMessages = map[Class]string{
	ClassAuthentication: "Authentication error",
	ClassAuthorization:  "Authorization error",
	ClassServer:         "Server error",
	ClassGeneric:        "API error",
}

// LogSink writes records at error level.
type LogSink struct {
	log *logger.Logger
}

// NewLogSink creates a LogSink. A nil logger falls back to the global one.
func NewLogSink(log *logger.Logger) *LogSink {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &LogSink{log: log.WithComponent("diagnostic")}
}

// Emit implements Sink.
func (s *LogSink) Emit(_ context.Context, rec Record) {
	msg, ok := classMessages[rec.Class]
	if !ok {
		msg = classMessages[ClassGeneric]
	}
	fields := logger.Fields(
		logger.FieldClass, rec.Class.String(),
		logger.FieldMethod, rec.Method,
		logger.FieldPath, rec.Path,
		logger.FieldDetail, rec.Detail,
	)
	if rec.HasResponse() {
		fields[logger.FieldStatusCode] = rec.StatusCode
	}
	s.log.Error(msg, fields)
}
