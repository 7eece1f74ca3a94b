package output

import (
	"fmt"
	"io"
	"strings"
)

// PlainFormatter formats entries as one line per device.
type PlainFormatter struct{}

// NewPlainFormatter creates a new plain text formatter.
func NewPlainFormatter() *PlainFormatter {
	return &PlainFormatter{}
}

// Format writes entries as plain text. Matching devices are marked with "*".
func (f *PlainFormatter) Format(w io.Writer, entries []DeviceEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No paired audio devices found.")
		return err
	}

	var sb strings.Builder
	for _, e := range entries {
		marker := " "
		if e.Match {
			marker = "*"
		}
		sb.WriteString(fmt.Sprintf("%s %s [%s]", marker, e.Name, e.Address))
		if e.Connected {
			sb.WriteString(" (connected)")
		}
		sb.WriteString("\n    " + e.ID + "\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
