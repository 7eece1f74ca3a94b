package model

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// Attempt identifies one pass of the supervisor loop from device discovery
// to connection close. The ID only correlates log lines.
type Attempt struct {
	ID        string
	Device    Device
	StartedAt time.Time
}

// NewAttempt creates an Attempt for device with a fresh ULID.
func NewAttempt(device Device) (*Attempt, error) {
	now := time.Now()
	id, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ULID: %w", err)
	}

	return &Attempt{
		ID:        id.String(),
		Device:    device,
		StartedAt: now,
	}, nil
}
