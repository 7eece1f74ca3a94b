package model

import "strings"

// Device describes a paired Bluetooth peripheral as reported by the
// device registry. ID is the opaque platform identifier (a BlueZ object
// path) and Name is the display name used for matching.
type Device struct {
	ID        string   `json:"id" yaml:"id"`
	Name      string   `json:"name" yaml:"name"`
	Address   string   `json:"address,omitempty" yaml:"address,omitempty"`
	Adapter   string   `json:"adapter,omitempty" yaml:"adapter,omitempty"`
	Paired    bool     `json:"paired" yaml:"paired"`
	Connected bool     `json:"connected" yaml:"connected"`
	UUIDs     []string `json:"uuids,omitempty" yaml:"uuids,omitempty"`
}

// MatchesName reports whether the device's display name equals name,
// ignoring case. Substrings and prefixes never match.
func (d Device) MatchesName(name string) bool {
	return name != "" && strings.EqualFold(d.Name, name)
}

// FindByName returns the first device whose name matches.
func FindByName(devices []Device, name string) (Device, bool) {
	for _, d := range devices {
		if d.MatchesName(name) {
			return d, true
		}
	}
	return Device{}, false
}
