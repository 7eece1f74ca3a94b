package supervisor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmylchreest/a2dpsink/internal/model"
)

// DefaultRetryDelay is the fixed wait after an empty scan or a failed attempt.
const DefaultRetryDelay = 5 * time.Second

// Options configures a Supervisor.
type Options struct {
	DeviceName string        // Target display name, matched case-insensitively
	Selector   string        // Capability selector passed to the registry
	RetryDelay time.Duration // Zero means DefaultRetryDelay
}

// Supervisor runs the scan/connect/wait loop for one device name.
type Supervisor struct {
	opts     Options
	registry Registry
	factory  ConnectionFactory
	reporter Reporter
	logger   *slog.Logger

	sleep Sleeper
	now   func() time.Time
}

// New creates a Supervisor. DeviceName is required.
func New(opts Options, registry Registry, factory ConnectionFactory, reporter Reporter, logger *slog.Logger) (*Supervisor, error) {
	if opts.DeviceName == "" {
		return nil, errors.New("device name cannot be empty")
	}
	if registry == nil || factory == nil || reporter == nil {
		return nil, errors.New("registry, factory and reporter are required")
	}
	if opts.RetryDelay < 0 {
		return nil, fmt.Errorf("retry delay must not be negative, got %s", opts.RetryDelay)
	}
	if opts.RetryDelay == 0 {
		opts.RetryDelay = DefaultRetryDelay
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Supervisor{
		opts:     opts,
		registry: registry,
		factory:  factory,
		reporter: reporter,
		logger:   logger,
		sleep:    sleepContext,
		now:      time.Now,
	}, nil
}

// SetSleeper replaces the function used to wait between retries.
func (s *Supervisor) SetSleeper(sleep Sleeper) {
	s.sleep = sleep
}

// Run supervises the connection until ctx is cancelled and then returns
// ctx.Err(). Attempt failures never end the loop.
func (s *Supervisor) Run(ctx context.Context) error {
	s.logger.Info("supervisor started",
		"device", s.opts.DeviceName,
		"selector", s.opts.Selector,
		"retry_delay", s.opts.RetryDelay)

	for {
		device, err := s.scan(ctx)
		if err != nil {
			return err
		}

		attempt, err := model.NewAttempt(device)
		if err != nil {
			return err
		}
		logger := s.logger.With("attempt", attempt.ID, "device_id", device.ID)

		if err := s.connect(ctx, attempt, logger); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Warn("connection attempt failed", "error", err)
			s.reporter.Failed(device, err)

			if err := s.sleep(ctx, s.opts.RetryDelay); err != nil {
				return err
			}
			continue
		}

		logger.Info("connection closed, rescanning")
	}
}

// scan polls the registry until a device with the configured name appears.
func (s *Supervisor) scan(ctx context.Context) (model.Device, error) {
	s.reporter.ScanStarted()

	for {
		if device, ok := s.find(ctx); ok {
			s.logger.Info("device found", "name", device.Name, "id", device.ID)
			s.reporter.DeviceFound(device)
			return device, nil
		}

		s.reporter.ScanTick()
		if err := s.sleep(ctx, s.opts.RetryDelay); err != nil {
			return model.Device{}, err
		}
	}
}

// find runs one registry query. Query errors count as not found.
func (s *Supervisor) find(ctx context.Context) (model.Device, bool) {
	devices, err := s.registry.FindAll(ctx, s.opts.Selector)
	if err != nil {
		s.logger.Debug("device query failed", "error", err)
		return model.Device{}, false
	}
	return model.FindByName(devices, s.opts.DeviceName)
}

// connect runs one attempt against device and blocks until the connection
// closes. It returns nil only after an open connection has closed.
func (s *Supervisor) connect(ctx context.Context, attempt *model.Attempt, logger *slog.Logger) error {
	device := attempt.Device
	s.reporter.Connecting(device)

	conn, err := s.factory.Create(ctx, device.ID)
	if err != nil {
		return fmt.Errorf("create connection: %w", err)
	}
	if conn == nil {
		return ErrNoConnection
	}
	defer func() {
		if err := conn.Close(); err != nil {
			logger.Debug("failed to release connection", "error", err)
		}
	}()

	// Registered before Start so a close during opening is not missed.
	closed := make(chan struct{}, 1)
	unsubscribe := conn.OnStateChanged(func(state model.ConnectionState) {
		if state != model.StateClosed {
			return
		}
		select {
		case closed <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	if err := conn.Start(ctx); err != nil {
		return fmt.Errorf("start connection: %w", err)
	}

	result, err := conn.Open(ctx)
	if err != nil {
		return fmt.Errorf("open connection: %w", err)
	}
	if !result.Succeeded() {
		return &OpenError{Result: result}
	}

	openedAt := s.now()
	logger.Info("connected", "name", device.Name, "state", conn.State().String())
	s.reporter.Connected(device)

	select {
	case <-closed:
	case <-ctx.Done():
		return ctx.Err()
	}

	logger.Info("connection closed", "uptime", s.now().Sub(openedAt))
	s.reporter.Disconnected(device, openedAt)
	return nil
}
