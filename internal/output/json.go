package output

import (
	"encoding/json"
	"io"
)

// JSONFormatter formats entries as a JSON array.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Format writes entries as an indented JSON array.
func (f *JSONFormatter) Format(w io.Writer, entries []DeviceEntry) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(entries)
}
