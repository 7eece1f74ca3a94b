package bluez

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/godbus/dbus/v5"
)

const (
	// BusName is the well-known name BlueZ owns on the system bus.
	BusName = "org.bluez"
	// RootPath is the BlueZ object tree root.
	RootPath = "/org/bluez"

	deviceIface        = "org.bluez.Device1"
	propsIface         = "org.freedesktop.DBus.Properties"
	objectManagerIface = "org.freedesktop.DBus.ObjectManager"

	propsChangedSignal      = propsIface + ".PropertiesChanged"
	interfacesRemovedSignal = objectManagerIface + ".InterfacesRemoved"
)

// Client wraps a system D-Bus connection for BlueZ operations.
type Client struct {
	conn   *dbus.Conn
	logger *slog.Logger
}

// NewClient connects to the system bus and checks that BlueZ is running.
func NewClient(logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to system bus: %w", err)
	}

	var names []string
	if err := conn.BusObject().Call("org.freedesktop.DBus.ListNames", 0).Store(&names); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to list bus names: %w", err)
	}
	if !slices.Contains(names, BusName) {
		_ = conn.Close()
		return nil, fmt.Errorf("%s not found on system bus, is bluetooth.service running?", BusName)
	}

	logger.Debug("connected to system bus", "bluez", BusName)
	return &Client{conn: conn, logger: logger}, nil
}

// Close closes the underlying bus connection.
func (c *Client) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// managedObjects returns the full BlueZ object tree.
func (c *Client) managedObjects(ctx context.Context) (map[dbus.ObjectPath]map[string]map[string]dbus.Variant, error) {
	var objects map[dbus.ObjectPath]map[string]map[string]dbus.Variant
	obj := c.conn.Object(BusName, "/")
	if err := obj.CallWithContext(ctx, objectManagerIface+".GetManagedObjects", 0).Store(&objects); err != nil {
		return nil, fmt.Errorf("failed to get managed objects: %w", err)
	}
	return objects, nil
}

// deviceProps returns all Device1 properties of the object at path.
func (c *Client) deviceProps(ctx context.Context, path dbus.ObjectPath) (map[string]dbus.Variant, error) {
	var props map[string]dbus.Variant
	obj := c.conn.Object(BusName, path)
	if err := obj.CallWithContext(ctx, propsIface+".GetAll", 0, deviceIface).Store(&props); err != nil {
		return nil, err
	}
	return props, nil
}

// connectProfile asks BlueZ to connect a single profile of the device.
func (c *Client) connectProfile(ctx context.Context, path dbus.ObjectPath, uuid string) error {
	obj := c.conn.Object(BusName, path)
	return obj.CallWithContext(ctx, deviceIface+".ConnectProfile", 0, uuid).Err
}

// --- variant helpers ---

func variantString(props map[string]dbus.Variant, key string) string {
	if v, ok := props[key]; ok {
		if s, ok := v.Value().(string); ok {
			return s
		}
	}
	return ""
}

func variantBool(props map[string]dbus.Variant, key string) bool {
	if v, ok := props[key]; ok {
		if b, ok := v.Value().(bool); ok {
			return b
		}
	}
	return false
}

func variantStrings(props map[string]dbus.Variant, key string) []string {
	if v, ok := props[key]; ok {
		if s, ok := v.Value().([]string); ok {
			return s
		}
	}
	return nil
}

func variantPath(props map[string]dbus.Variant, key string) dbus.ObjectPath {
	if v, ok := props[key]; ok {
		if p, ok := v.Value().(dbus.ObjectPath); ok {
			return p
		}
	}
	return ""
}
