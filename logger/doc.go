// Package logger provides structured logging for backendclient using zerolog.
//
// It supports JSON and console output, level configuration and
// component-scoped loggers carrying structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.New(&cfg, "backendprobe").WithComponent("httpclient")
//	log.Error("Server error", logger.Fields(logger.FieldStatusCode, 503))
package logger
