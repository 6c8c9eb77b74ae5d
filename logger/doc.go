// Package logger provides structured logging for the flowio runtime and
// its hosts using zerolog.
//
// It supports multiple output formats (JSON, console), log level
// configuration, component-scoped loggers, and a pipeline registry for
// topology summaries.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("flowio.iterator")
//	log.Debug("iterator state changed", logger.Fields(
//	    logger.FieldIterator, it.String(),
//	    logger.FieldState, "open",
//	))
package logger
