package logging

import (
	"log/slog"
)

// SetupMCPMode initializes logging for MCP server mode.
//
// The MCP protocol uses stdout exclusively for JSON-RPC; any stray writes
// to stdout or stderr corrupt the stream and break client handshakes.
// In this mode logs go only to the log file.
func SetupMCPMode(level string) (func(), error) {
	cfg := Config{
		Level:         level,
		FilePath:      DefaultLogPath(),
		MaxSizeMB:     10,
		MaxFiles:      5,
		WriteToStderr: false,
	}

	logger, cleanup, err := Setup(cfg)
	if err != nil {
		return nil, err
	}

	slog.SetDefault(logger)

	slog.Info("mcp_logging_initialized",
		slog.String("log_file", cfg.FilePath),
		slog.String("level", cfg.Level))

	return cleanup, nil
}
