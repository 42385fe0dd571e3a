// Package logging provides structured logging for wgadmin.
//
// This package wraps a zap logger with convenience functions for the logging
// patterns used throughout the tool: outbound API calls and session state
// changes.
//
// # Log Levels
//
//   - Debug: Request/response details, request ids, timings
//   - Info: Session changes (login, logout, forced logout), mutations
//   - Warn: Recoverable oddities (unexpected server fields, stale responses)
//   - Error: Failures that abort a command
//
// # Silent By Default
//
// The terminal console owns stdout, so logging is disabled unless a level is
// requested via --log-level or WGADMIN_LOG_LEVEL. When a level is set, output
// goes to the file given by --log-file / WGADMIN_LOG_FILE, or to stderr.
//
//	if err := logging.Initialize("debug", "/tmp/wgadmin.log"); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// # Secrets
//
// Bearer tokens must never be logged verbatim. Use Redact for anything that
// might contain one.
package logging
