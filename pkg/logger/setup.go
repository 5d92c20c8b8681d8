package logger

import "os"

// SetupLogger installs a package default logger from resolved configuration
// values. Output goes to stderr so command output on stdout stays clean.
func SetupLogger(logLevel string, logJSON, logSource bool) Logger {
	level := LogLevel(logLevel)
	switch level {
	case DebugLevel, InfoLevel, WarnLevel, ErrorLevel, DisabledLevel:
	default:
		level = InfoLevel
	}
	l := NewLogger(&Config{
		Level:      level,
		Output:     os.Stderr,
		JSON:       logJSON,
		AddSource:  logSource,
		TimeFormat: "15:04:05",
	})
	SetDefault(l)
	return l
}
