// Package output provides formatters for the device listing.
package output

import (
	"fmt"
	"io"

	"github.com/jmylchreest/a2dpsink/internal/model"
)

// DeviceEntry is one row of the device listing.
type DeviceEntry struct {
	model.Device `yaml:",inline"`
	Match        bool `json:"match" yaml:"match"` // Name equals the configured target
}

// Formatter formats device entries for output.
type Formatter interface {
	// Format writes formatted entries to the writer.
	Format(w io.Writer, entries []DeviceEntry) error
}

// FormatType represents an output format type.
type FormatType string

const (
	FormatPlain FormatType = "plain"
	FormatJSON  FormatType = "json"
	FormatYAML  FormatType = "yaml"
)

// ValidFormats returns all supported format names.
func ValidFormats() []FormatType {
	return []FormatType{FormatPlain, FormatJSON, FormatYAML}
}

// NewFormatter creates a formatter for the specified format type.
func NewFormatter(format FormatType) (Formatter, error) {
	switch format {
	case FormatPlain, "":
		return NewPlainFormatter(), nil
	case FormatJSON:
		return NewJSONFormatter(), nil
	case FormatYAML:
		return NewYAMLFormatter(), nil
	default:
		return nil, fmt.Errorf("unknown format %q, must be one of: %v", format, ValidFormats())
	}
}

// Entries builds listing rows, marking those whose name matches target.
func Entries(devices []model.Device, target string) []DeviceEntry {
	entries := make([]DeviceEntry, len(devices))
	for i, d := range devices {
		entries[i] = DeviceEntry{Device: d, Match: d.MatchesName(target)}
	}
	return entries
}
