package console

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jmylchreest/a2dpsink/internal/model"
)

var testDevice = model.Device{ID: "/org/bluez/hci0/dev_BB_BB_BB_BB_BB_BB", Name: "MySpeaker"}

func TestConsole_ScanAndConnect(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, false, nil)

	c.ScanStarted()
	c.ScanTick()
	c.ScanTick()
	c.DeviceFound(testDevice)
	c.Connecting(testDevice)
	c.Connected(testDevice)

	expected := "Scanning for devices..\n" +
		"Device MySpeaker found. [Id: /org/bluez/hci0/dev_BB_BB_BB_BB_BB_BB]\n" +
		"Connecting to device...\n" +
		"Successfully connected.\n"
	assert.Equal(t, expected, buf.String())
}

func TestConsole_FoundOnFirstPoll(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, false, nil)

	c.ScanStarted()
	c.DeviceFound(testDevice)

	assert.Equal(t, "Scanning for devices\nDevice MySpeaker found. [Id: /org/bluez/hci0/dev_BB_BB_BB_BB_BB_BB]\n", buf.String())
}

func TestConsole_Failed(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, false, nil)

	c.Failed(testDevice, errors.New("failed to open connection: denied by system"))

	assert.Equal(t, "Failed to connect: failed to open connection: denied by system\n", buf.String())
}

func TestConsole_Disconnected(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, false, nil)

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Disconnected(testDevice, now.Add(-3*time.Minute))

	assert.Equal(t, "Connection to MySpeaker closed (opened 3 minutes ago)\n", buf.String())
}

func TestConsole_RescanAfterScanLine(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, false, nil)

	c.ScanStarted()
	c.ScanTick()
	c.ScanStarted()

	assert.Equal(t, "Scanning for devices.\nScanning for devices", buf.String())
}

func TestConsole_ColorToNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, true, nil)

	c.Connected(testDevice)

	// A bytes.Buffer is not a terminal, so no escape sequences are written
	assert.Equal(t, "Successfully connected.\n", buf.String())
}
