// Package console prints the supervisor's progress as short human-readable
// lines, styled with lipgloss when the output is a terminal.
package console
