// Package logger provides structured logging for gatekit using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers with structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//	  components:
//	    auth: "debug"
//	    resilience: "warn"
//
// Component levels apply to dotted children too, so "auth" also sets
// "auth.memory".
//
// # Usage
//
//	log := logger.Get(logger.ComponentAuth)
//	log.Info("user authenticated", logger.Fields(logger.FieldUsername, name))
//
// Secrets never belong in fields. Callers log usernames and outcomes,
// never presented credentials or encoded passwords.
package logger
