package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/a2dpsink/internal/bluez"
	"github.com/jmylchreest/a2dpsink/internal/console"
	"github.com/jmylchreest/a2dpsink/internal/supervisor"
)

// errDeviceRequired mirrors cobra's message for a missing required flag.
var errDeviceRequired = errors.New(`required flag(s) "device" not set`)

// connectionFactory adapts the BlueZ factory to the supervisor interface.
type connectionFactory struct {
	factory *bluez.ConnectionFactory
}

func (f connectionFactory) Create(ctx context.Context, deviceID string) (supervisor.Connection, error) {
	conn, err := f.factory.Create(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

func runSupervisor(cmd *cobra.Command, args []string) error {
	if cfg.Device == "" {
		return errDeviceRequired
	}

	profile, err := bluez.ResolveProfile(cfg.Bluetooth.Profile)
	if err != nil {
		return err
	}

	client, err := bluez.NewClient(logger)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	registry := bluez.NewRegistry(client, cfg.Bluetooth.Adapter, logger)
	factory := connectionFactory{factory: bluez.NewConnectionFactory(client, profile, logger)}
	reporter := console.New(os.Stdout, cfg.Console.Color, logger)

	sup, err := supervisor.New(supervisor.Options{
		DeviceName: cfg.Device,
		Selector:   profile,
		RetryDelay: cfg.Retry.Delay.Duration(),
	}, registry, factory, reporter, logger)
	if err != nil {
		return fmt.Errorf("failed to create supervisor: %w", err)
	}

	// Set up signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	logger.Info("starting a2dpsink", "version", version, "device", cfg.Device)
	if err := sup.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info("a2dpsink stopped")
	return nil
}
