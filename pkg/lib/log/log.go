// Package log has the logger used by the unblock SDK.
//
// The SDK is silent by default. To get its logs, pass a [Logger] on the client
// configuration, for example an adapter over the application logger:
//
//	type slogLogger struct{ l *slog.Logger }
//
//	func (s slogLogger) Debugf(format string, args ...any) { s.l.Debug(fmt.Sprintf(format, args...)) }
//	func (s slogLogger) WithValues(kv log.Kv) log.Logger  { ... }
//	// ... the rest of the Logger methods.
//
//	client, err := lib.New(lib.Config{Logger: slogLogger{l: slog.Default()}})
package log

import "github.com/slok/unblock/internal/log"

// Logger is the SDK logger. Every run adds its `run-id` to the logged values.
type Logger = log.Logger

// Kv are structured key-value pairs added to the log lines.
type Kv = log.Kv

// Noop discards everything, it's the default logger.
var Noop = log.Noop
