package bluez

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/a2dpsink/internal/model"
)

func TestOpenResultFromError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected model.OpenStatus
		reason   string
	}{
		{"nil", nil, model.OpenSuccess, ""},
		{"already connected", dbus.Error{Name: "org.bluez.Error.AlreadyConnected"}, model.OpenSuccess, "org.bluez.Error.AlreadyConnected"},
		{"not authorized", dbus.Error{Name: "org.bluez.Error.NotAuthorized"}, model.OpenDeniedBySystem, "org.bluez.Error.NotAuthorized"},
		{"access denied pointer", &dbus.Error{Name: "org.freedesktop.DBus.Error.AccessDenied"}, model.OpenDeniedBySystem, "org.freedesktop.DBus.Error.AccessDenied"},
		{"no reply", dbus.Error{Name: "org.freedesktop.DBus.Error.NoReply"}, model.OpenRequestTimedOut, "org.freedesktop.DBus.Error.NoReply"},
		{"bluez failed", dbus.Error{Name: "org.bluez.Error.Failed"}, model.OpenUnknownFailure, "org.bluez.Error.Failed"},
		{"wrapped", fmt.Errorf("call: %w", dbus.Error{Name: "org.bluez.Error.NotReady"}), model.OpenUnknownFailure, "org.bluez.Error.NotReady"},
		{"deadline", context.DeadlineExceeded, model.OpenRequestTimedOut, context.DeadlineExceeded.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := openResultFromError(tt.err)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result.Status)
			assert.Equal(t, tt.reason, result.Reason)
		})
	}
}

func TestOpenResultFromError_Unexpected(t *testing.T) {
	busErr := errors.New("dbus: connection closed by user")

	result, err := openResultFromError(busErr)
	require.Error(t, err)
	assert.ErrorIs(t, err, busErr)
	assert.False(t, result.Succeeded())
}
