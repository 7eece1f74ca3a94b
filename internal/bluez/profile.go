package bluez

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// A2DP service class UUIDs.
const (
	AudioSourceUUID = "0000110a-0000-1000-8000-00805f9b34fb"
	AudioSinkUUID   = "0000110b-0000-1000-8000-00805f9b34fb"
)

// ResolveProfile turns a profile name or UUID into the lowercase UUID
// string BlueZ uses in Device1.UUIDs and ConnectProfile.
//
// "sink" selects remote devices that render audio (speakers, headphones).
// "source" selects remote devices that stream audio to this host (phones),
// so the host itself acts as the sink.
func ResolveProfile(profile string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(profile)) {
	case "sink", "a2dp-sink":
		return AudioSinkUUID, nil
	case "source", "a2dp-source":
		return AudioSourceUUID, nil
	}

	id, err := uuid.Parse(profile)
	if err != nil {
		return "", fmt.Errorf("invalid profile %q: want sink, source or a UUID: %w", profile, err)
	}
	return id.String(), nil
}
