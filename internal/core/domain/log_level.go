package domain

import "log/slog"

// LogLevel is the severity of a line attached to a telemetry vertex. Values match slog.
type LogLevel int

// Levels used by vertex logs.
const (
	LogLevelDebug = LogLevel(slog.LevelDebug)
	LogLevelInfo  = LogLevel(slog.LevelInfo)
	LogLevelWarn  = LogLevel(slog.LevelWarn)
	LogLevelError = LogLevel(slog.LevelError)
)

// String returns the slog name of the level, e.g. "WARN" or "INFO+2".
func (l LogLevel) String() string {
	return slog.Level(l).String()
}
