// Package logger provides structured logging for the speechturn service
// using zerolog.
//
// Loggers are scoped by component and enriched from the request context
// (request id, user id, turn id). Every writer is wrapped in a redacting
// filter so bearer tokens and refresh tokens never reach the log output.
//
//	log := logger.New(&cfg.Logging, "speechturn").WithComponent("orchestrator")
//	log.Info("turn completed", logger.Fields("turn_id", id, "state", "completed"))
package logger
