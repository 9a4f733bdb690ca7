package logging

import (
	"log/slog"
	"os"
)

// Setup installs the process-wide JSON logger. The level comes from the
// LOG_LEVEL environment variable (debug, info, warn, error); anything else
// means info. Once the database is up, main swaps the default for a fan-out
// that also feeds the security_events sink.
func Setup() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: levelFromEnv(),
	})))
}

func levelFromEnv() slog.Level {
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
