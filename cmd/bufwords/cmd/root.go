// Package cmd provides the CLI commands for bufwords.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/bufwords/internal/config"
	"github.com/Aman-CERP/bufwords/internal/logging"
	"github.com/Aman-CERP/bufwords/internal/profiling"
	"github.com/Aman-CERP/bufwords/internal/store"
	"github.com/Aman-CERP/bufwords/pkg/version"
)

var (
	configFile string
	dbPath     string
	debugMode  bool

	loggingCleanup func()

	profileCPU   string
	profileMem   string
	profileTrace string
	profiler     = profiling.NewProfiler()
	cpuCleanup   func()
	traceCleanup func()
)

// NewRootCmd creates the root command for the bufwords CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bufwords",
		Short: "Buffer word index for editor completion",
		Long: `bufwords maintains a SQLite index of words seen in editor buffers,
each word stored with the two tokens that preceded it. Completion
engines query it by prefix (case-insensitive) or exact word.

Run 'bufwords serve' to expose the index over MCP, or use the index,
lookup and watch commands directly.`,
		Version: version.Version,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return cmd.Help()
			}
			// Bare invocation serves MCP over stdio, matching how editor
			// clients are configured to launch the binary.
			return runServe(cmd.Context())
		},
	}

	cmd.SetVersionTemplate("bufwords version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: XDG config path)")
	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database file (overrides config)")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.bufwords/logs/")

	cmd.PersistentFlags().StringVar(&profileCPU, "profile-cpu", "", "Write CPU profile to file")
	cmd.PersistentFlags().StringVar(&profileMem, "profile-mem", "", "Write memory profile to file")
	cmd.PersistentFlags().StringVar(&profileTrace, "profile-trace", "", "Write execution trace to file")

	cmd.PersistentPreRunE = startProfilingAndLogging
	cmd.PersistentPostRunE = stopProfilingAndLogging

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newIndexCmd())
	cmd.AddCommand(newLookupCmd())
	cmd.AddCommand(newBuffersCmd())
	cmd.AddCommand(newCloseCmd())
	cmd.AddCommand(newWatchCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func startProfilingAndLogging(_ *cobra.Command, _ []string) error {
	if debugMode {
		cfg := logging.DefaultConfig()
		cfg.Level = "debug"
		logger, cleanup, err := logging.Setup(cfg)
		if err != nil {
			return fmt.Errorf("setup debug logging: %w", err)
		}
		loggingCleanup = cleanup
		slog.SetDefault(logger)
		slog.Info("debug_logging_enabled", slog.String("log_file", logging.DefaultLogPath()))
	}

	var err error
	if profileCPU != "" {
		cpuCleanup, err = profiler.StartCPU(profileCPU)
		if err != nil {
			return fmt.Errorf("start CPU profile: %w", err)
		}
	}
	if profileTrace != "" {
		traceCleanup, err = profiler.StartTrace(profileTrace)
		if err != nil {
			if cpuCleanup != nil {
				cpuCleanup()
			}
			return fmt.Errorf("start trace: %w", err)
		}
	}
	return nil
}

func stopProfilingAndLogging(_ *cobra.Command, _ []string) error {
	if cpuCleanup != nil {
		cpuCleanup()
		cpuCleanup = nil
	}
	if traceCleanup != nil {
		traceCleanup()
		traceCleanup = nil
	}
	if profileMem != "" {
		if err := profiler.WriteHeap(profileMem); err != nil {
			return fmt.Errorf("write memory profile: %w", err)
		}
	}
	if loggingCleanup != nil {
		loggingCleanup()
		loggingCleanup = nil
	}
	return nil
}

// loadConfig builds the effective configuration, honoring the --config
// and --db flags.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if configFile != "" {
		cfg, err = config.LoadFile(configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	return cfg, nil
}

// openIndex opens the word index per the effective configuration.
func openIndex(cfg *config.Config) (*store.Store, error) {
	return store.Open(store.Options{
		Path:            cfg.Database.Path,
		CacheSizeMB:     cfg.Database.CacheSizeMB,
		BusyTimeout:     cfg.Database.BusyTimeoutDuration(),
		PrefixCacheSize: cfg.Database.PrefixCacheSize,
	})
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
