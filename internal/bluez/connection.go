package bluez

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/a2dpsink/internal/model"
)

// ConnectionFactory creates connection handles for one audio profile.
type ConnectionFactory struct {
	client  *Client
	profile string
	logger  *slog.Logger
}

// NewConnectionFactory creates a factory that connects profile, a UUID as
// returned by ResolveProfile.
func NewConnectionFactory(client *Client, profile string, logger *slog.Logger) *ConnectionFactory {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConnectionFactory{
		client:  client,
		profile: profile,
		logger:  logger,
	}
}

// Create returns a fresh connection handle for the device object at id.
// The device must still exist in the BlueZ object tree.
func (f *ConnectionFactory) Create(ctx context.Context, id string) (*Connection, error) {
	path := dbus.ObjectPath(id)
	if !path.IsValid() {
		return nil, fmt.Errorf("%w: invalid device path %q", ErrCreateConnection, id)
	}

	if _, err := f.client.deviceProps(ctx, path); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCreateConnection, id, err)
	}

	return newConnection(f.client, path, f.profile, f.logger), nil
}

// Connection is a single attempt to connect a device's audio profile.
// A Connection is never reused: once closed, a new one must be created.
type Connection struct {
	client  *Client
	path    dbus.ObjectPath
	profile string
	logger  *slog.Logger

	mu        sync.Mutex
	state     model.ConnectionState
	listeners map[uint64]func(model.ConnectionState)
	nextID    uint64
	started   bool
	released  bool

	signals chan *dbus.Signal
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func newConnection(client *Client, path dbus.ObjectPath, profile string, logger *slog.Logger) *Connection {
	if logger == nil {
		logger = slog.Default()
	}
	return &Connection{
		client:    client,
		path:      path,
		profile:   profile,
		logger:    logger.With("device", string(path)),
		state:     model.StateOpening,
		listeners: make(map[uint64]func(model.ConnectionState)),
	}
}

// Path returns the device object path this connection targets.
func (c *Connection) Path() dbus.ObjectPath {
	return c.path
}

// State returns the current connection state.
func (c *Connection) State() model.ConnectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// OnStateChanged registers fn to be called on every state transition.
// The returned function deregisters it; calling it more than once is safe.
func (c *Connection) OnStateChanged(fn func(model.ConnectionState)) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.listeners, id)
			c.mu.Unlock()
		})
	}
}

// matchRules returns the signal match rules needed to observe the device.
func (c *Connection) matchRules() [][]dbus.MatchOption {
	return [][]dbus.MatchOption{
		{
			dbus.WithMatchObjectPath(c.path),
			dbus.WithMatchInterface(propsIface),
			dbus.WithMatchMember("PropertiesChanged"),
		},
		{
			dbus.WithMatchObjectPath("/"),
			dbus.WithMatchInterface(objectManagerIface),
			dbus.WithMatchMember("InterfacesRemoved"),
		},
	}
}

// Start subscribes to the device's signals. It must be called before Open.
func (c *Connection) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.released {
		return ErrConnectionClosed
	}
	if c.started {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	conn := c.client.conn
	rules := c.matchRules()
	for i, rule := range rules {
		if err := conn.AddMatchSignal(rule...); err != nil {
			for _, added := range rules[:i] {
				_ = conn.RemoveMatchSignal(added...)
			}
			return fmt.Errorf("failed to add match rule: %w", err)
		}
	}

	c.signals = make(chan *dbus.Signal, 16)
	c.stopCh = make(chan struct{})
	c.doneCh = make(chan struct{})
	conn.Signal(c.signals)
	c.started = true

	go c.processSignals()

	c.logger.Debug("connection started")
	return nil
}

// Open connects the audio profile and reports the outcome. A non-nil error
// means the call failed in a way that has no status, such as a lost bus.
func (c *Connection) Open(ctx context.Context) (model.OpenResult, error) {
	c.mu.Lock()
	started, released := c.started, c.released
	c.mu.Unlock()

	if released {
		return model.OpenResult{Status: model.OpenUnknownFailure}, ErrConnectionClosed
	}
	if !started {
		return model.OpenResult{Status: model.OpenUnknownFailure}, ErrNotStarted
	}

	c.logger.Debug("connecting profile", "uuid", c.profile)
	result, err := openResultFromError(c.client.connectProfile(ctx, c.path, c.profile))
	if err != nil {
		return result, fmt.Errorf("connect profile: %w", err)
	}

	if result.Succeeded() {
		c.setState(model.StateOpen)
	}
	c.logger.Debug("open finished", "status", result.Status.String(), "reason", result.Reason)
	return result, nil
}

// Close releases the signal subscription. Listeners are not notified.
func (c *Connection) Close() error {
	c.mu.Lock()
	if c.released {
		c.mu.Unlock()
		return nil
	}
	c.released = true
	c.state = model.StateClosed
	started := c.started
	c.mu.Unlock()

	if !started {
		return nil
	}

	conn := c.client.conn
	conn.RemoveSignal(c.signals)
	var firstErr error
	for _, rule := range c.matchRules() {
		if err := conn.RemoveMatchSignal(rule...); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to remove match rule: %w", err)
		}
	}

	close(c.stopCh)
	<-c.doneCh

	c.logger.Debug("connection released")
	return firstErr
}

// processSignals forwards bus signals until the connection is released.
func (c *Connection) processSignals() {
	defer close(c.doneCh)

	for {
		select {
		case sig, ok := <-c.signals:
			if !ok {
				return
			}
			c.handleSignal(sig)
		case <-c.stopCh:
			return
		}
	}
}

// handleSignal marks the connection closed when the device disconnects or
// disappears from the object tree.
func (c *Connection) handleSignal(sig *dbus.Signal) {
	if sig == nil {
		return
	}

	switch sig.Name {
	case propsChangedSignal:
		// Body: [interface_name string, changed_props map[string]Variant, invalidated []string]
		if sig.Path != c.path || len(sig.Body) < 2 {
			return
		}
		iface, ok := sig.Body[0].(string)
		if !ok || iface != deviceIface {
			return
		}
		changed, ok := sig.Body[1].(map[string]dbus.Variant)
		if !ok {
			return
		}
		connVar, ok := changed["Connected"]
		if !ok {
			return
		}
		connected, ok := connVar.Value().(bool)
		if !ok || connected {
			return
		}
		c.logger.Debug("device disconnected")
		c.setState(model.StateClosed)

	case interfacesRemovedSignal:
		// Body: [object_path ObjectPath, interfaces []string]
		if len(sig.Body) < 2 {
			return
		}
		path, ok := sig.Body[0].(dbus.ObjectPath)
		if !ok || path != c.path {
			return
		}
		ifaces, ok := sig.Body[1].([]string)
		if !ok || !slices.Contains(ifaces, deviceIface) {
			return
		}
		c.logger.Debug("device removed")
		c.setState(model.StateClosed)
	}
}

// setState moves to state and notifies listeners. Closed is final.
func (c *Connection) setState(state model.ConnectionState) {
	c.mu.Lock()
	if c.state == state || c.state == model.StateClosed {
		c.mu.Unlock()
		return
	}
	c.state = state
	listeners := make([]func(model.ConnectionState), 0, len(c.listeners))
	for _, fn := range c.listeners {
		listeners = append(listeners, fn)
	}
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(state)
	}
}
