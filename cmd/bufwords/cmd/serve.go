package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/bufwords/internal/logging"
	"github.com/Aman-CERP/bufwords/internal/mcp"
	"github.com/Aman-CERP/bufwords/internal/telemetry"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the word index over MCP (stdio)",
		Long: `Start the MCP server on stdio.

The MCP protocol owns stdout for JSON-RPC, so all logging goes to the
log file only. Editor clients configure this command as the server
binary.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// File-only logging: a stray write to stdout corrupts the JSON-RPC
	// stream and breaks the client handshake.
	cleanup, err := logging.SetupMCPMode(cfg.Server.LogLevel)
	if err != nil {
		return err
	}
	defer cleanup()

	idx, err := openIndex(cfg)
	if err != nil {
		slog.Error("index_open_failed", slog.String("error", err.Error()))
		return err
	}
	defer func() { _ = idx.Close() }()

	srv, err := mcp.NewServer(idx, cfg.Database.LookupLimit)
	if err != nil {
		return err
	}
	srv.SetMetrics(telemetry.NewLookupMetrics())

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = srv.Serve(ctx, cfg.Server.Transport)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
