package bluez

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/a2dpsink/internal/model"
)

// Registry lists paired devices that advertise a given profile.
type Registry struct {
	client  *Client
	adapter string // "hci0"; empty = any
	logger  *slog.Logger
}

// NewRegistry creates a Registry. adapter restricts results to one local
// controller when non-empty.
func NewRegistry(client *Client, adapter string, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		client:  client,
		adapter: adapter,
		logger:  logger,
	}
}

// FindAll returns paired devices whose advertised UUIDs include selector.
func (r *Registry) FindAll(ctx context.Context, selector string) ([]model.Device, error) {
	objects, err := r.client.managedObjects(ctx)
	if err != nil {
		return nil, err
	}

	devices := devicesFromObjects(objects, selector, r.adapter)
	r.logger.Debug("enumerated devices", "selector", selector, "count", len(devices))
	return devices, nil
}

// devicesFromObjects filters a GetManagedObjects reply down to paired
// Device1 objects that advertise selector, sorted by object path.
func devicesFromObjects(objects map[dbus.ObjectPath]map[string]map[string]dbus.Variant, selector, adapter string) []model.Device {
	var adapterPath dbus.ObjectPath
	if adapter != "" {
		adapterPath = dbus.ObjectPath(RootPath + "/" + adapter)
	}

	devices := []model.Device{}
	for path, ifaces := range objects {
		props, ok := ifaces[deviceIface]
		if !ok {
			continue
		}

		device := deviceFromProps(path, props)
		if !device.Paired {
			continue
		}
		if adapterPath != "" && dbus.ObjectPath(device.Adapter) != adapterPath {
			continue
		}
		if selector != "" && !hasUUID(device.UUIDs, selector) {
			continue
		}
		devices = append(devices, device)
	}

	slices.SortFunc(devices, func(a, b model.Device) int {
		return strings.Compare(a.ID, b.ID)
	})
	return devices
}

// deviceFromProps builds a descriptor from Device1 properties. Alias is
// the user-visible name and falls back to the remote name.
func deviceFromProps(path dbus.ObjectPath, props map[string]dbus.Variant) model.Device {
	name := variantString(props, "Alias")
	if name == "" {
		name = variantString(props, "Name")
	}

	return model.Device{
		ID:        string(path),
		Name:      name,
		Address:   variantString(props, "Address"),
		Adapter:   string(variantPath(props, "Adapter")),
		Paired:    variantBool(props, "Paired"),
		Connected: variantBool(props, "Connected"),
		UUIDs:     variantStrings(props, "UUIDs"),
	}
}

func hasUUID(uuids []string, want string) bool {
	for _, u := range uuids {
		if strings.EqualFold(u, want) {
			return true
		}
	}
	return false
}
