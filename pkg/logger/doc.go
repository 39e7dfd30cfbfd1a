// Package logger provides a thin factory around Go's slog package plus a set
// of attribute constructors shared across the SDK.
//
// The factory – New – creates a *slog.Logger configured by Option functions:
//
//   - Select an output format (text or json)
//   - Set the minimum log level
//   - Supply default slog.Attr values applied to every record
//   - Switch on debug output with a single option
//
// Helper constructors such as Error, UserID and Component return
// commonly-used slog.Attr instances to keep attribute naming consistent
// across the codebase.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithDebug(true),
//	    logger.WithAttr(logger.Component("stream")),
//	)
//	log.Info("connected", logger.UserID("user-1"))
package logger
