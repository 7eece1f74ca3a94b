package bluez

import (
	"context"
	"errors"

	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/a2dpsink/internal/model"
)

// ErrCreateConnection is returned when no connection handle can be created
// for a device identifier.
var ErrCreateConnection = errors.New("failed to create audio connection")

// ErrNotStarted is returned by Open when Start has not been called.
var ErrNotStarted = errors.New("connection not started")

// ErrConnectionClosed is returned when a released handle is reused.
var ErrConnectionClosed = errors.New("connection already closed")

// openStatuses maps D-Bus error names from Device1.ConnectProfile to an
// open status. Names not listed here are unknown failures.
var openStatuses = map[string]model.OpenStatus{
	"org.bluez.Error.AlreadyConnected":        model.OpenSuccess,
	"org.bluez.Error.NotAuthorized":           model.OpenDeniedBySystem,
	"org.bluez.Error.AuthenticationRejected":  model.OpenDeniedBySystem,
	"org.bluez.Error.AuthenticationCanceled":  model.OpenDeniedBySystem,
	"org.bluez.Error.Blocked":                 model.OpenDeniedBySystem,
	"org.freedesktop.DBus.Error.AccessDenied": model.OpenDeniedBySystem,
	"org.bluez.Error.AuthenticationTimeout":   model.OpenRequestTimedOut,
	"org.freedesktop.DBus.Error.NoReply":      model.OpenRequestTimedOut,
	"org.freedesktop.DBus.Error.Timeout":      model.OpenRequestTimedOut,
	"org.freedesktop.DBus.Error.TimedOut":     model.OpenRequestTimedOut,
}

// dbusErrorName extracts the D-Bus error name from err, if it is one.
func dbusErrorName(err error) (string, bool) {
	var derr dbus.Error
	if errors.As(err, &derr) {
		return derr.Name, true
	}
	var pderr *dbus.Error
	if errors.As(err, &pderr) && pderr != nil {
		return pderr.Name, true
	}
	return "", false
}

// openResultFromError classifies a ConnectProfile error. D-Bus errors and
// deadline expiry become a status; anything else is returned unchanged as
// an unexpected failure.
func openResultFromError(err error) (model.OpenResult, error) {
	if err == nil {
		return model.OpenResult{Status: model.OpenSuccess}, nil
	}

	if name, ok := dbusErrorName(err); ok {
		status, known := openStatuses[name]
		if !known {
			status = model.OpenUnknownFailure
		}
		return model.OpenResult{Status: status, Reason: name}, nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return model.OpenResult{Status: model.OpenRequestTimedOut, Reason: err.Error()}, nil
	}

	return model.OpenResult{Status: model.OpenUnknownFailure}, err
}
