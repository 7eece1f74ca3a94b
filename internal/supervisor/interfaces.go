package supervisor

import (
	"context"
	"time"

	"github.com/jmylchreest/a2dpsink/internal/model"
)

// Registry enumerates paired devices matching a capability selector.
type Registry interface {
	FindAll(ctx context.Context, selector string) ([]model.Device, error)
}

// Connection is a single connection attempt to a device.
type Connection interface {
	Start(ctx context.Context) error
	Open(ctx context.Context) (model.OpenResult, error)
	State() model.ConnectionState
	// OnStateChanged registers a listener and returns its deregistration.
	OnStateChanged(fn func(model.ConnectionState)) func()
	Close() error
}

// ConnectionFactory creates a fresh Connection for a device identifier.
type ConnectionFactory interface {
	Create(ctx context.Context, deviceID string) (Connection, error)
}

// Reporter receives progress events for presentation.
type Reporter interface {
	ScanStarted()
	ScanTick()
	DeviceFound(device model.Device)
	Connecting(device model.Device)
	Connected(device model.Device)
	Disconnected(device model.Device, openedAt time.Time)
	Failed(device model.Device, err error)
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// sleepContext is the default Sleeper.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
