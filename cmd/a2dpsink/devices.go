package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/a2dpsink/internal/bluez"
	"github.com/jmylchreest/a2dpsink/internal/output"
)

var devicesOpts struct {
	format string
	all    bool
}

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List paired devices offering the selected audio profile",
	Long: `List the paired devices that a2dpsink would consider when scanning.

The device matching --device (or the configured device) is marked with "*".
Use --all to include paired devices that do not advertise the profile.`,
	Args: cobra.NoArgs,
	RunE: runDevices,
}

func init() {
	rootCmd.AddCommand(devicesCmd)

	devicesCmd.Flags().StringVarP(&devicesOpts.format, "format", "f", string(output.FormatPlain),
		"Output format: plain, json, yaml")
	devicesCmd.Flags().BoolVar(&devicesOpts.all, "all", false,
		"Include paired devices without the selected profile")
}

func runDevices(cmd *cobra.Command, args []string) error {
	formatter, err := output.NewFormatter(output.FormatType(devicesOpts.format))
	if err != nil {
		return err
	}

	selector, err := bluez.ResolveProfile(cfg.Bluetooth.Profile)
	if err != nil {
		return err
	}
	if devicesOpts.all {
		selector = ""
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := bluez.NewClient(logger)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	devices, err := bluez.NewRegistry(client, cfg.Bluetooth.Adapter, logger).FindAll(ctx, selector)
	if err != nil {
		return err
	}

	return formatter.Format(os.Stdout, output.Entries(devices, cfg.Device))
}
