// Package main provides the CLI entrypoint for a2dpsink.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/a2dpsink/internal/config"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// Global configuration and state
var (
	cfg        *config.Config
	globalOpts struct {
		verbose    bool
		configPath string
		device     string
		profile    string
		adapter    string
	}
	logger *slog.Logger
)

// rootCmd runs the connection supervisor.
var rootCmd = &cobra.Command{
	Use:   "a2dpsink",
	Short: "Keep a Bluetooth A2DP audio device connected",
	Long: `a2dpsink connects this machine to a paired Bluetooth audio device and
keeps the connection alive.

It scans the paired devices known to BlueZ for one whose name matches
--device (case-insensitive), connects its A2DP profile, waits for the link
to drop and then starts over. Missing devices and failed attempts are retried
every 5 seconds until the process is stopped.

Examples:
  a2dpsink --device "MySpeaker"
  a2dpsink -d "Pixel 8" --profile source`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	Args:    cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger()

		var err error
		cfg, err = config.LoadConfig(globalOpts.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		applyFlagOverrides(cmd)
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid options: %w", err)
		}

		logger.Debug("configuration loaded",
			"device", cfg.Device,
			"profile", cfg.Bluetooth.Profile,
			"adapter", cfg.Bluetooth.Adapter,
			"retry_delay", cfg.Retry.Delay.Duration())
		return nil
	},
	RunE: runSupervisor,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&globalOpts.device, "device", "d", "",
		"Name of the Bluetooth A2DP device to connect to")
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/a2dpsink/config.toml)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.profile, "profile", "",
		"Audio profile to connect: sink, source or a UUID (default: sink)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.adapter, "adapter", "",
		"Only use devices paired with this adapter, e.g. hci0")
}

// applyFlagOverrides lets explicitly set flags win over the config file.
func applyFlagOverrides(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("device") {
		cfg.Device = globalOpts.device
	}
	if flags.Changed("profile") {
		cfg.Bluetooth.Profile = globalOpts.profile
	}
	if flags.Changed("adapter") {
		cfg.Bluetooth.Adapter = globalOpts.adapter
	}
}

// setupLogger configures the global slog logger.
func setupLogger() {
	level := slog.LevelWarn
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	// Log to stderr so stdout only carries progress output
	handler := slog.NewTextHandler(os.Stderr, opts)
	logger = slog.New(handler)
	slog.SetDefault(logger)
}
